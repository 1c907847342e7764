// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout

import (
	"strconv"

	"github.com/vechain/storagepatch/errs"
)

// Index is a validated, read-only view of a Layout with constant time lookups.
// It is safe for concurrent use.
type Index struct {
	vars  []*Variable
	byVar map[string]*Variable
	types map[string]*Type
}

// NewIndex validates the layout and builds the lookup tables. The layout itself is not modified.
func NewIndex(l *Layout) (*Index, error) {
	idx := &Index{
		byVar: make(map[string]*Variable, len(l.Storage)),
		types: make(map[string]*Type, len(l.Types)),
	}

	for id, raw := range l.Types {
		if raw == nil {
			return nil, errs.NotFound("type %s: empty definition", id)
		}
		t := *raw
		t.ID = id
		if err := deriveType(&t); err != nil {
			return nil, err
		}
		idx.types[id] = &t
	}

	for _, t := range idx.types {
		if err := idx.checkRefs(t); err != nil {
			return nil, err
		}
	}

	for i, v := range l.Storage {
		if v == nil {
			return nil, errs.NotFound("storage entry %d: empty definition", i)
		}
		if _, err := idx.FindType(v.Type); err != nil {
			return nil, errs.NotFound("type %s of variable %q", v.Type, v.Label)
		}
		if err := checkOffset(v, idx.types[v.Type]); err != nil {
			return nil, err
		}
		idx.vars = append(idx.vars, v)
		// an inherited variable is listed before the ones of derived contracts; the first one wins
		if _, ok := idx.byVar[v.Label]; !ok {
			idx.byVar[v.Label] = v
		}
	}
	return idx, nil
}

// FindVariable returns the top-level state variable with the given label.
func (idx *Index) FindVariable(name string) (*Variable, error) {
	if v, ok := idx.byVar[name]; ok {
		return v, nil
	}
	return nil, errs.NotFound("variable %q", name)
}

// FindType returns the type with the given id.
func (idx *Index) FindType(id string) (*Type, error) {
	if t, ok := idx.types[id]; ok {
		return t, nil
	}
	return nil, errs.NotFound("type %s", id)
}

// Variables returns state variables in declaration order.
func (idx *Index) Variables() []*Variable {
	return idx.vars
}

func deriveType(t *Type) error {
	size, err := strconv.ParseUint(t.NumberOfBytes, 10, 64)
	if err != nil {
		return errs.Unsupported("type %s: numberOfBytes %q", t.ID, t.NumberOfBytes)
	}
	t.Size = size

	switch t.Encoding {
	case "inplace":
		switch {
		case len(t.Members) > 0:
			t.Kind = Struct
		case t.Base != "":
			t.Kind = FixedArray
		default:
			t.Kind = Scalar
			if size == 0 || size > 32 {
				return errs.Unsupported("type %s: in place value of %d bytes", t.ID, size)
			}
		}
	case "mapping":
		t.Kind = Mapping
	case "dynamic_array":
		t.Kind = DynamicArray
	case "bytes":
		t.Kind = Bytes
	default:
		return errs.Unsupported("type %s: encoding %q", t.ID, t.Encoding)
	}
	t.Scalar = classifyValue(t.Kind, t.Label)
	return nil
}

func (idx *Index) checkRefs(t *Type) error {
	need := func(what, id string) error {
		if id == "" {
			return errs.NotFound("type %s: %s type missing", t.ID, what)
		}
		if _, ok := idx.types[id]; !ok {
			return errs.NotFound("type %s: %s type %s", t.ID, what, id)
		}
		return nil
	}

	switch t.Kind {
	case Mapping:
		if err := need("key", t.Key); err != nil {
			return err
		}
		return need("value", t.Value)
	case DynamicArray, FixedArray:
		return need("base", t.Base)
	case Struct:
		for i, m := range t.Members {
			if m == nil {
				return errs.NotFound("type %s: member %d: empty definition", t.ID, i)
			}
			if err := need("member "+m.Label, m.Type); err != nil {
				return err
			}
			if err := checkOffset(m, idx.types[m.Type]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkOffset(v *Variable, t *Type) error {
	if v.Offset < 0 || v.Offset > 31 {
		return errs.Unsupported("%q: offset %d out of range", v.Label, v.Offset)
	}
	if v.Offset+t.Width() > 32 {
		return errs.Unsupported("%q: %d bytes at offset %d cross a slot boundary", v.Label, t.Width(), v.Offset)
	}
	return nil
}
