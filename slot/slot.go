// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slot derives storage slots the way the Solidity compiler lays them out.
// All arithmetic is on 256-bit unsigned integers and wraps modulo 2^256, as the EVM does.
// Functions never modify their arguments.
package slot

import (
	"github.com/holiman/uint256"

	"github.com/vechain/storagepatch/evm"
)

// Word returns the 32-byte big-endian form of a slot number.
func Word(s *uint256.Int) evm.Bytes32 {
	return evm.Uint256ToBytes32(s)
}

// Mapping returns the slot of the value stored under key in a mapping declared at base.
// key must already be encoded to its 32-byte ABI form; shorter input is left padded.
func Mapping(base *uint256.Int, key []byte) *uint256.Int {
	padded := evm.BytesToBytes32(key)
	baseWord := Word(base)
	return fromWord(evm.Keccak256(padded[:], baseWord[:]))
}

// MappingRaw returns the slot of the value stored under a string or dynamic bytes key.
// Those keys are hashed as their raw bytes, without padding.
func MappingRaw(base *uint256.Int, key []byte) *uint256.Int {
	baseWord := Word(base)
	return fromWord(evm.Keccak256(key, baseWord[:]))
}

// DynamicArrayBase returns the slot of element zero of a dynamic array declared at slot.
// The declared slot itself holds the length.
func DynamicArrayBase(declared *uint256.Int) *uint256.Int {
	w := Word(declared)
	return fromWord(evm.Keccak256(w[:]))
}

// DynamicArrayElement returns the first slot of element index of a dynamic array declared at slot.
func DynamicArrayElement(declared, index *uint256.Int, slotsPerElement uint64) *uint256.Int {
	return FixedArrayElement(DynamicArrayBase(declared), index, slotsPerElement)
}

// FixedArrayElement returns base + index*slotsPerElement.
func FixedArrayElement(base, index *uint256.Int, slotsPerElement uint64) *uint256.Int {
	step := new(uint256.Int).Mul(index, uint256.NewInt(slotsPerElement))
	return step.Add(step, base)
}

// StructMember returns base + relative.
func StructMember(base, relative *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(base, relative)
}

// SlotsPerElement is the number of whole slots an array element of the given size occupies.
func SlotsPerElement(size uint64) uint64 {
	if size <= 32 {
		return 1
	}
	return (size + 31) / 32
}

// PackedElement places element index of an array of elements no wider than 16 bytes,
// packing as many elements into each slot as fit. It returns the slot and the byte offset.
func PackedElement(base, index *uint256.Int, size uint64) (*uint256.Int, int) {
	perSlot := uint256.NewInt(32 / size)
	quo, rem := new(uint256.Int), new(uint256.Int)
	quo.DivMod(index, perSlot, rem)
	return quo.Add(quo, base), int(rem.Uint64() * size)
}

// Packable reports whether array elements of the given size share slots.
func Packable(size uint64) bool {
	return size > 0 && size <= 16
}

func fromWord(w evm.Bytes32) *uint256.Int {
	return w.Uint256()
}
