// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package codec converts typed values to and from 32-byte storage words.
//
// An encoded value occupies the low Width() bytes of the word, big-endian, with every other
// byte zero. Placing it at a packed field's offset is done by MergePartialWord.
package codec

import (
	"math/big"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
)

// MaxShortBytes is the longest string or bytes value stored in place.
const MaxShortBytes = 31

// Encode encodes value as a word of type t.
//
// Scalars accept Go integers, *big.Int and *uint256.Int (or decimal/hex strings) for integer and
// enum types, bool, evm.Address or common.Address for address types and []byte for bytesN.
// Strings and dynamic bytes accept string or []byte of up to 31 bytes. A dynamic array cell
// takes its length. Other containers only accept a raw evm.Bytes32 word.
func Encode(value any, t *layout.Type) (evm.Bytes32, error) {
	switch t.Kind {
	case layout.Scalar:
		return encodeScalar(value, t)
	case layout.Bytes:
		return encodeShortBytes(value, t)
	case layout.DynamicArray:
		return encodeUnsigned(value, t, 32)
	case layout.Mapping, layout.FixedArray, layout.Struct:
		return toWord(value, t)
	}
	return evm.Bytes32{}, errs.Unsupported("encoding %s of %s", t.Kind, t)
}

// Decode is the inverse of Encode. Only the low Width() bytes of word are considered.
//
// Integer, enum and opaque types decode to *big.Int, bool to bool, addresses to evm.Address,
// bytesN and dynamic bytes to []byte, strings to string, dynamic array cells to their length
// as *big.Int and other containers to the raw evm.Bytes32.
func Decode(word evm.Bytes32, t *layout.Type) (any, error) {
	switch t.Kind {
	case layout.Scalar:
		return decodeScalar(word, t)
	case layout.Bytes:
		return decodeShortBytes(word, t)
	case layout.DynamicArray:
		return new(big.Int).SetBytes(word[:]), nil
	case layout.Mapping, layout.FixedArray, layout.Struct:
		return word, nil
	}
	return nil, errs.Unsupported("decoding %s of %s", t.Kind, t)
}

func encodeScalar(value any, t *layout.Type) (evm.Bytes32, error) {
	width := t.Width()
	switch t.Scalar {
	case layout.Uint, layout.Enum, layout.Raw:
		return encodeUnsigned(value, t, width)
	case layout.Int:
		return encodeSigned(value, t, width)
	case layout.Bool:
		b, err := toBool(value, t)
		if err != nil {
			return evm.Bytes32{}, err
		}
		var w evm.Bytes32
		if b {
			w[31] = 1
		}
		return w, nil
	case layout.Address:
		addr, err := toAddress(value, t)
		if err != nil {
			return evm.Bytes32{}, err
		}
		return evm.BytesToBytes32(addr[:]), nil
	case layout.FixedBytes:
		b, err := toBytes(value, t)
		if err != nil {
			return evm.Bytes32{}, err
		}
		if len(b) > width {
			return evm.Bytes32{}, errs.Overflow("%d bytes do not fit %s", len(b), t)
		}
		// bytesN is left aligned within its own field
		var w evm.Bytes32
		copy(w[32-width:], b)
		return w, nil
	}
	return evm.Bytes32{}, errs.Unsupported("value kind %s of %s", t.Scalar, t)
}

func encodeUnsigned(value any, t *layout.Type, width int) (evm.Bytes32, error) {
	n, err := toBig(value, t)
	if err != nil {
		return evm.Bytes32{}, err
	}
	if n.Sign() < 0 || n.BitLen() > width*8 {
		return evm.Bytes32{}, errs.Overflow("%s does not fit %s", n, t)
	}
	return evm.BytesToBytes32(n.Bytes()), nil
}

func encodeSigned(value any, t *layout.Type, width int) (evm.Bytes32, error) {
	n, err := toBig(value, t)
	if err != nil {
		return evm.Bytes32{}, err
	}
	bits := uint(width * 8)
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return evm.Bytes32{}, errs.Overflow("%s does not fit %s", n, t)
	}
	if n.Sign() < 0 {
		// two's complement within exactly width bytes
		n = new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	return evm.BytesToBytes32(n.Bytes()), nil
}

func encodeShortBytes(value any, t *layout.Type) (evm.Bytes32, error) {
	var b []byte
	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return evm.Bytes32{}, errs.TypeMismatch("cannot use %T as %s", value, t)
	}
	if len(b) > MaxShortBytes {
		return evm.Bytes32{}, errs.Unsupported("%s of %d bytes needs the long form encoding", t, len(b))
	}
	var w evm.Bytes32
	copy(w[:], b)
	w[31] = byte(len(b) * 2)
	return w, nil
}

func decodeScalar(word evm.Bytes32, t *layout.Type) (any, error) {
	width := t.Width()
	field := word[32-width:]
	switch t.Scalar {
	case layout.Uint, layout.Enum, layout.Raw:
		return new(big.Int).SetBytes(field), nil
	case layout.Int:
		n := new(big.Int).SetBytes(field)
		if field[0]&0x80 != 0 {
			n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(width*8)))
		}
		return n, nil
	case layout.Bool:
		for _, b := range field {
			if b != 0 {
				return true, nil
			}
		}
		return false, nil
	case layout.Address:
		return evm.BytesToAddress(field), nil
	case layout.FixedBytes:
		return append([]byte(nil), field...), nil
	}
	return nil, errs.Unsupported("value kind %s of %s", t.Scalar, t)
}

func decodeShortBytes(word evm.Bytes32, t *layout.Type) (any, error) {
	marker := word[31]
	if marker&1 == 1 {
		return nil, errs.Unsupported("%s stored in the long form", t)
	}
	n := int(marker / 2)
	if n > MaxShortBytes {
		return nil, errs.Unsupported("%s with length %d in short form", t, n)
	}
	if t.Scalar == layout.String {
		return string(word[:n]), nil
	}
	return append([]byte(nil), word[:n]...), nil
}
