// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout

import (
	"strconv"
	"strings"
)

// EncodingKind is the storage strategy of a type.
type EncodingKind uint8

const (
	// Scalar values live in place, possibly packed with siblings.
	Scalar EncodingKind = iota
	// Mapping values live at keccak256(key . slot).
	Mapping
	// DynamicArray keeps its length at the declared slot and elements from keccak256(slot).
	DynamicArray
	// FixedArray elements occupy consecutive slots from the declared slot.
	FixedArray
	// Struct members occupy consecutive slots from the declared slot.
	Struct
	// Bytes is a string or dynamic bytes value; only the short in-place form is supported.
	Bytes
)

func (k EncodingKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Mapping:
		return "mapping"
	case DynamicArray:
		return "dynamic_array"
	case FixedArray:
		return "fixed_array"
	case Struct:
		return "struct"
	case Bytes:
		return "bytes"
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// IsContainer reports whether a path may descend into the type.
func (k EncodingKind) IsContainer() bool {
	switch k {
	case Mapping, DynamicArray, FixedArray, Struct:
		return true
	}
	return false
}

// ValueKind classifies the value of a Scalar or Bytes type for encoding.
type ValueKind uint8

const (
	// Raw is an opaque unsigned value of the declared width, e.g. a user defined value type
	// or an internal function pointer.
	Raw ValueKind = iota
	Uint
	Int
	Bool
	Address
	Enum
	FixedBytes
	String
	DynamicBytes
)

func (k ValueKind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Uint:
		return "uint"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Address:
		return "address"
	case Enum:
		return "enum"
	case FixedBytes:
		return "fixed_bytes"
	case String:
		return "string"
	case DynamicBytes:
		return "bytes"
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// classifyValue derives the value kind from a type label. Labels are canonical in compiler
// output (uint256 rather than uint, address payable, contract X, enum X).
func classifyValue(kind EncodingKind, label string) ValueKind {
	if kind == Bytes {
		if label == "string" {
			return String
		}
		return DynamicBytes
	}
	switch {
	case label == "bool":
		return Bool
	case label == "address", label == "address payable":
		return Address
	case strings.HasPrefix(label, "contract "), strings.HasPrefix(label, "interface "):
		return Address
	case strings.HasPrefix(label, "enum "):
		return Enum
	case isSized(label, "uint"):
		return Uint
	case isSized(label, "int"):
		return Int
	case isSized(label, "bytes"):
		return FixedBytes
	}
	return Raw
}

func isSized(label, prefix string) bool {
	rest, ok := strings.CutPrefix(label, prefix)
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}
