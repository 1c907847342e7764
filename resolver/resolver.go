// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package resolver walks a storage layout along a path of mapping keys, array indices and
// struct fields and computes the storage cell holding the value at its end.
//
// Resolution is pure: it performs no I/O and is safe for concurrent use.
package resolver

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/vechain/storagepatch/codec"
	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/slot"
)

// MaxPathLength bounds the number of segments of a path.
const MaxPathLength = 128

// Cell addresses a value in storage: Width bytes at byte Offset, counted from the low-order
// end, of the word at Slot. Offset+Width never exceeds 32.
type Cell struct {
	Slot   evm.Bytes32
	Offset int
	Width  int
	Type   *layout.Type
}

// FullWord reports whether the cell covers its whole slot.
func (c *Cell) FullWord() bool {
	return c.Offset == 0 && c.Width == 32
}

type options struct {
	packArrays bool
}

// Option configures Resolve.
type Option func(*options)

// PackArrays places array elements of 16 bytes or less several per slot, as the compiler does.
// Without it every element gets a slot of its own.
func PackArrays(on bool) Option {
	return func(o *options) { o.packArrays = on }
}

// Resolve computes the cell reached from state variable varName by following path.
//
// A path ending on a container (mapping, array or struct) yields the cell of the container's
// first slot. On a dynamic array, a Length segment (or the raw "length"/".length") yields
// its length word and must be the last segment.
func Resolve(idx *layout.Index, varName string, path []Segment, opts ...Option) (*Cell, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(path) > MaxPathLength {
		return nil, errs.PathTooLong("%d segments, at most %d allowed", len(path), MaxPathLength)
	}

	v, err := idx.FindVariable(varName)
	if err != nil {
		return nil, err
	}
	typ, err := idx.FindType(v.Type)
	if err != nil {
		return nil, err
	}

	var (
		cur    = new(uint256.Int).Set(&v.Slot.Int)
		offset = v.Offset
		rest   = path
	)
	for ; len(rest) > 0; rest = rest[1:] {
		seg := rest[0]

		switch typ.Kind {
		case layout.Scalar, layout.Bytes:
			return nil, errs.PathTooLong("%s is a %s, cannot apply %q", varName, typ, seg)

		case layout.Mapping:
			keyType, err := idx.FindType(typ.Key)
			if err != nil {
				return nil, err
			}
			key, raw, err := mappingKey(seg, keyType)
			if err != nil {
				return nil, err
			}
			if raw {
				cur = slot.MappingRaw(cur, key)
			} else {
				cur = slot.Mapping(cur, key)
			}
			offset = 0
			if typ, err = idx.FindType(typ.Value); err != nil {
				return nil, err
			}

		case layout.DynamicArray:
			if isLength(seg) {
				if len(rest) > 1 {
					return nil, errs.PathTooLong("nothing follows the length of %s", typ)
				}
				return &Cell{Slot: slot.Word(cur), Offset: 0, Width: 32, Type: layout.LengthType()}, nil
			}
			index, err := arrayIndex(seg, typ)
			if err != nil {
				return nil, err
			}
			elem, err := idx.FindType(typ.Base)
			if err != nil {
				return nil, err
			}
			cur, offset = element(slot.DynamicArrayBase(cur), index, elem, o.packArrays)
			typ = elem

		case layout.FixedArray:
			if _, ok := seg.(Length); ok {
				return nil, errs.TypeMismatch("%s has no length slot", typ)
			}
			index, err := arrayIndex(seg, typ)
			if err != nil {
				return nil, err
			}
			elem, err := idx.FindType(typ.Base)
			if err != nil {
				return nil, err
			}
			cur, offset = element(cur, index, elem, o.packArrays)
			typ = elem

		case layout.Struct:
			name, err := fieldName(seg, typ)
			if err != nil {
				return nil, err
			}
			m, ok := typ.Member(name)
			if !ok {
				return nil, errs.NotFound("field %q in %s, available: %s", name, typ, strings.Join(typ.MemberNames(), ", "))
			}
			cur = slot.StructMember(cur, &m.Slot.Int)
			offset = m.Offset
			if typ, err = idx.FindType(m.Type); err != nil {
				return nil, err
			}

		default:
			return nil, errs.Unsupported("encoding %s of %s", typ.Kind, typ)
		}
	}

	return &Cell{Slot: slot.Word(cur), Offset: offset, Width: typ.Width(), Type: typ}, nil
}

func element(base, index *uint256.Int, elem *layout.Type, packed bool) (*uint256.Int, int) {
	if packed && elem.Kind == layout.Scalar && slot.Packable(elem.Size) {
		return slot.PackedElement(base, index, elem.Size)
	}
	return slot.FixedArrayElement(base, index, slot.SlotsPerElement(elem.Size)), 0
}

func isLength(seg Segment) bool {
	switch seg := seg.(type) {
	case Length:
		return true
	case Raw:
		return seg == "length" || seg == ".length"
	}
	return false
}

func mappingKey(seg Segment, keyType *layout.Type) ([]byte, bool, error) {
	var value any
	switch seg := seg.(type) {
	case MappingKey:
		value = seg.Value
	case Raw:
		v, err := codec.ParseValue(string(seg), keyType)
		if err != nil {
			return nil, false, err
		}
		value = v
	default:
		return nil, false, errs.TypeMismatch("%T %q applied to mapping", seg, seg)
	}
	return codec.EncodeKey(value, keyType)
}

func arrayIndex(seg Segment, typ *layout.Type) (*uint256.Int, error) {
	switch seg := seg.(type) {
	case ArrayIndex:
		if seg.Index == nil {
			return nil, errs.TypeMismatch("nil index applied to %s", typ)
		}
		return seg.Index, nil
	case Raw:
		n, ok := math.ParseBig256(string(seg))
		if !ok || seg == "" || n.Sign() < 0 {
			return nil, errs.TypeMismatch("%q is not an index of %s", string(seg), typ)
		}
		index, _ := uint256.FromBig(n)
		return index, nil
	}
	return nil, errs.TypeMismatch("%T %q applied to %s", seg, seg, typ)
}

func fieldName(seg Segment, typ *layout.Type) (string, error) {
	switch seg := seg.(type) {
	case StructField:
		return seg.Name, nil
	case Raw:
		return strings.TrimPrefix(string(seg), "."), nil
	}
	return "", errs.TypeMismatch("%T %q applied to %s", seg, seg, typ)
}
