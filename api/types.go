// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/resolver"
)

// Variable describes a state variable of the layout.
type Variable struct {
	Label    string      `json:"label"`
	Slot     layout.Slot `json:"slot"`
	Offset   int         `json:"offset"`
	Type     string      `json:"type"`
	TypeName string      `json:"typeName"`
	Encoding string      `json:"encoding"`
	Size     uint64      `json:"numberOfBytes"`
}

// Path selects a value either by an expression such as `people["alice"].age`, or by a
// variable name and its segments.
type Path struct {
	Expr     string   `json:"expr,omitempty"`
	Variable string   `json:"variable,omitempty"`
	Path     []string `json:"path,omitempty"`
}

func (p *Path) segments() (string, []resolver.Segment, error) {
	switch {
	case p.Expr != "" && p.Variable != "":
		return "", nil, errors.New("expr and variable are exclusive")
	case p.Expr != "":
		return resolver.ParsePath(p.Expr)
	case p.Variable != "":
		return p.Variable, resolver.ParseSegments(p.Path), nil
	}
	return "", nil, errors.New("expr or variable required")
}

// Cell is a resolved storage location.
type Cell struct {
	Slot   evm.Bytes32 `json:"slot"`
	Offset int         `json:"offset"`
	Width  int         `json:"width"`
	Type   string      `json:"type"`
}

func newCell(c *resolver.Cell) *Cell {
	return &Cell{
		Slot:   c.Slot,
		Offset: c.Offset,
		Width:  c.Width,
		Type:   c.Type.ID,
	}
}

// Value is a decoded value with the cell it was read from or written to.
type Value struct {
	Cell
	Value string `json:"value"`
}

// SetRequest writes Value, given in its textual form, at Path.
type SetRequest struct {
	Path
	Value string `json:"value"`
}
