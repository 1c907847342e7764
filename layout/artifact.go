// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/vechain/storagepatch/errs"
)

// Parse decodes a bare storageLayout object.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(err, "decode storage layout")
	}
	if l.Types == nil {
		l.Types = map[string]*Type{}
	}
	return &l, nil
}

type artifact struct {
	Storage       json.RawMessage                       `json:"storage"`
	StorageLayout json.RawMessage                       `json:"storageLayout"`
	Contracts     map[string]map[string]json.RawMessage `json:"contracts"`
	Output        *struct {
		Contracts map[string]map[string]json.RawMessage `json:"contracts"`
	} `json:"output"`
}

// ParseArtifact extracts the storage layout of a contract from compiler output. Accepted inputs
// are a bare storageLayout object, a single contract artifact carrying a storageLayout field,
// solc standard-json output and Hardhat build-info files. For the latter two the contract is
// selected by name, either "Name" or "path/File.sol:Name".
func ParseArtifact(data []byte, contract string) (*Layout, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode artifact")
	}

	switch {
	case len(a.Storage) > 0:
		return Parse(data)
	case len(a.StorageLayout) > 0:
		return Parse(a.StorageLayout)
	}

	contracts := a.Contracts
	if contracts == nil && a.Output != nil {
		contracts = a.Output.Contracts
	}
	if contracts == nil {
		return nil, errs.NotFound("storage layout in artifact")
	}

	raw, err := pickContract(contracts, contract)
	if err != nil {
		return nil, err
	}
	var c struct {
		StorageLayout json.RawMessage `json:"storageLayout"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(err, "decode contract %s", contract)
	}
	if len(c.StorageLayout) == 0 {
		return nil, errs.NotFound("storage layout of contract %s, compile with outputSelection storageLayout", contract)
	}
	return Parse(c.StorageLayout)
}

func pickContract(contracts map[string]map[string]json.RawMessage, contract string) (json.RawMessage, error) {
	source, name := "", contract
	if i := strings.LastIndex(contract, ":"); i >= 0 {
		source, name = contract[:i], contract[i+1:]
	}

	var (
		found   json.RawMessage
		matches []string
	)
	for file, byName := range contracts {
		if source != "" && file != source {
			continue
		}
		for n, raw := range byName {
			if n == name || (name == "" && len(contracts) == 1 && len(byName) == 1) {
				found = raw
				matches = append(matches, file+":"+n)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, errs.NotFound("contract %q", contract)
	case 1:
		return found, nil
	}
	sort.Strings(matches)
	return nil, errors.Errorf("contract %q is ambiguous: %s", contract, strings.Join(matches, ", "))
}

// Load reads a layout file and builds its Index.
func Load(path, contract string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read layout")
	}
	l, err := ParseArtifact(data, contract)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return NewIndex(l)
}
