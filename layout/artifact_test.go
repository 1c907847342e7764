// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/test/fixture"
)

func TestParseArtifact(t *testing.T) {
	standardJSON := `{"contracts":{"contracts/Sample.sol":{"Sample":{"storageLayout":` + fixture.SampleJSON + `}}}}`
	buildInfo := `{"id":"abc","output":{"contracts":{"contracts/Sample.sol":{"Sample":{"storageLayout":` + fixture.SampleJSON + `}},
		"contracts/Other.sol":{"Other":{"abi":[]}}}}}`
	single := `{"contractName":"Sample","storageLayout":` + fixture.SampleJSON + `}`

	tests := []struct {
		name     string
		data     string
		contract string
	}{
		{"bare layout", fixture.SampleJSON, ""},
		{"single artifact", single, ""},
		{"standard json by name", standardJSON, "Sample"},
		{"standard json by qualified name", standardJSON, "contracts/Sample.sol:Sample"},
		{"standard json single contract", standardJSON, ""},
		{"build info", buildInfo, "Sample"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := layout.ParseArtifact([]byte(tt.data), tt.contract)
			require.NoError(t, err)
			assert.Len(t, l.Storage, 21)
		})
	}

	_, err := layout.ParseArtifact([]byte(buildInfo), "Missing")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = layout.ParseArtifact([]byte(buildInfo), "Other")
	assert.True(t, errors.Is(err, errs.ErrNotFound), "no storage layout selected at compile time")

	ambiguous := `{"contracts":{"a.sol":{"C":{"storageLayout":{"storage":[],"types":null}}},"b.sol":{"C":{"storageLayout":{"storage":[],"types":null}}}}}`
	_, err = layout.ParseArtifact([]byte(ambiguous), "C")
	assert.ErrorContains(t, err, "ambiguous")

	l, err := layout.ParseArtifact([]byte(ambiguous), "b.sol:C")
	require.NoError(t, err)
	assert.NotNil(t, l.Types)
}

func TestLoadAndRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sample.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture.SampleJSON), 0o600))

	reg, err := layout.NewRegistry(4)
	require.NoError(t, err)

	idx1, err := reg.Load(path, "")
	require.NoError(t, err)
	idx2, err := reg.Load(path, "")
	require.NoError(t, err)
	assert.Same(t, idx1, idx2)

	reg.Purge()
	idx3, err := reg.Load(path, "")
	require.NoError(t, err)
	assert.NotSame(t, idx1, idx3)

	// a rewritten file is parsed again
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	idx4, err := reg.Load(path, "")
	require.NoError(t, err)
	assert.NotSame(t, idx3, idx4)
	idx5, err := reg.Load(path, "")
	require.NoError(t, err)
	assert.Same(t, idx4, idx5)

	_, err = reg.Load(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)

	_, err = layout.NewRegistry(0)
	assert.Error(t, err)
}
