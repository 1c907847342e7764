// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Segment is one step of a path. The concrete types are MappingKey, ArrayIndex, Length,
// StructField and Raw.
type Segment interface {
	fmt.Stringer
	segment()
}

// MappingKey selects a mapping value. Value is any Go value codec.EncodeKey accepts for the
// mapping's declared key type.
type MappingKey struct {
	Value any
}

// ArrayIndex selects an array element. Indices are not bounds checked.
type ArrayIndex struct {
	Index *uint256.Int
}

// Length selects the length word of a dynamic array.
type Length struct{}

// StructField selects a struct member.
type StructField struct {
	Name string
}

// Raw is a textual segment. It is read as a field name, an index, a key or the length marker
// depending on the container it is applied to.
type Raw string

func (MappingKey) segment()  {}
func (ArrayIndex) segment()  {}
func (Length) segment()      {}
func (StructField) segment() {}
func (Raw) segment()         {}

func (k MappingKey) String() string {
	if s, ok := k.Value.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(k.Value)
}

func (i ArrayIndex) String() string {
	if i.Index == nil {
		return "<nil>"
	}
	return i.Index.Dec()
}

func (Length) String() string { return "length" }

func (f StructField) String() string { return f.Name }

func (r Raw) String() string { return string(r) }

// Key returns a mapping key segment.
func Key(v any) Segment { return MappingKey{Value: v} }

// Index returns an array index segment.
func Index(i uint64) Segment { return ArrayIndex{Index: uint256.NewInt(i)} }

// Field returns a struct field segment.
func Field(name string) Segment { return StructField{Name: name} }

// ParseSegments turns plain strings into Raw segments.
func ParseSegments(parts []string) []Segment {
	path := make([]Segment, 0, len(parts))
	for _, p := range parts {
		path = append(path, Raw(p))
	}
	return path
}

// FormatPath renders a path in the syntax accepted by ParsePath.
func FormatPath(varName string, path []Segment) string {
	var b strings.Builder
	b.WriteString(varName)
	for _, seg := range path {
		switch seg := seg.(type) {
		case StructField:
			b.WriteString("." + seg.Name)
		case Length:
			b.WriteString(".length")
		case Raw:
			b.WriteString("[" + strconv.Quote(string(seg)) + "]")
		default:
			b.WriteString("[" + seg.String() + "]")
		}
	}
	return b.String()
}

// ParsePath splits an expression such as `people["alice"].age`, `allowed[0xab..][3]`
// or `items.length` into the variable name and its Raw segments. Bracketed segments may be
// double quoted to include dots or brackets.
func ParsePath(expr string) (string, []Segment, error) {
	name, rest := expr, ""
	if i := strings.IndexAny(expr, ".["); i >= 0 {
		name, rest = expr[:i], expr[i:]
	}
	if name == "" {
		return "", nil, errors.Errorf("path %q: missing variable name", expr)
	}

	var path []Segment
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return "", nil, errors.Errorf("path %q: empty field name", expr)
			}
			path = append(path, Raw(rest[:end]))
			rest = rest[end:]
		case '[':
			seg, n, err := parseBracket(rest)
			if err != nil {
				return "", nil, errors.WithMessagef(err, "path %q", expr)
			}
			path = append(path, Raw(seg))
			rest = rest[n:]
		default:
			return "", nil, errors.Errorf("path %q: unexpected %q", expr, rest[0])
		}
	}
	return name, path, nil
}

// parseBracket reads `[...]` at the start of s and returns its content and the bytes consumed.
func parseBracket(s string) (string, int, error) {
	if len(s) > 1 && s[1] == '"' {
		quoted, err := strconv.QuotedPrefix(s[1:])
		if err != nil {
			return "", 0, errors.New("unterminated quoted segment")
		}
		n := 1 + len(quoted)
		if n >= len(s) || s[n] != ']' {
			return "", 0, errors.New("missing ]")
		}
		unquoted, err := strconv.Unquote(quoted)
		if err != nil {
			return "", 0, err
		}
		return unquoted, n + 1, nil
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", 0, errors.New("missing ]")
	}
	return s[1:end], end + 1, nil
}
