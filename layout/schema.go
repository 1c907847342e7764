// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout

import (
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Layout is the `storageLayout` object emitted by solc.
type Layout struct {
	Storage []*Variable      `json:"storage"`
	Types   map[string]*Type `json:"types"`
}

// Variable is a state variable or a struct member. For a member, Slot is relative to the
// struct's base slot.
type Variable struct {
	AstID    int    `json:"astId,omitempty"`
	Contract string `json:"contract,omitempty"`
	Label    string `json:"label"`
	Offset   int    `json:"offset"`
	Slot     Slot   `json:"slot"`
	Type     string `json:"type"`
}

// Member is a struct member, laid out relative to the struct base slot.
type Member = Variable

// Type describes how a type is stored. Only the JSON fields come from the compiler;
// the rest is derived once when an Index is built.
type Type struct {
	Encoding      string    `json:"encoding"`
	Label         string    `json:"label"`
	NumberOfBytes string    `json:"numberOfBytes"`
	Members       []*Member `json:"members,omitempty"`
	Key           string    `json:"key,omitempty"`
	Value         string    `json:"value,omitempty"`
	Base          string    `json:"base,omitempty"`

	ID   string       `json:"-"`
	Kind EncodingKind `json:"-"`
	// Scalar classifies the value held by Scalar and Bytes types.
	Scalar ValueKind `json:"-"`
	// Size is NumberOfBytes parsed.
	Size uint64 `json:"-"`
}

// Width is the number of bytes the type occupies within a single slot.
func (t *Type) Width() int {
	if t.Size > 32 {
		return 32
	}
	return int(t.Size)
}

// Member returns the struct member with the given label.
func (t *Type) Member(name string) (*Member, bool) {
	for _, m := range t.Members {
		if m.Label == name {
			return m, true
		}
	}
	return nil, false
}

// MemberNames lists the struct's member labels in declaration order.
func (t *Type) MemberNames() []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Label)
	}
	return names
}

func (t *Type) String() string {
	return t.Label
}

// Slot is a storage slot number, written by solc as a decimal string.
type Slot struct {
	uint256.Int
}

// NewSlot returns the slot with the given number.
func NewSlot(n uint64) Slot {
	var s Slot
	s.SetUint64(n)
	return s
}

// MarshalJSON implements json.Marshaler.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Dec())
}

// UnmarshalJSON accepts a decimal string, a 0x-prefixed hex string or a bare JSON number.
func (s *Slot) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	var err error
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		err = s.SetFromHex(text)
	} else {
		err = s.SetFromDecimal(text)
	}
	return errors.WithMessagef(err, "slot %s", text)
}

// LengthType returns the uint256 type used for the length word of a dynamic array.
func LengthType() *Type {
	return &Type{
		Encoding:      "inplace",
		Label:         "uint256",
		NumberOfBytes: "32",
		ID:            "t_uint256",
		Kind:          Scalar,
		Scalar:        Uint,
		Size:          32,
	}
}
