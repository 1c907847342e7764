// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
layout: build/Sample.json
contract: Sample
address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
backend: leveldb
data-dir: /tmp/state
cache-size: 0
log:
  verbosity: 4
  json: true
api:
  addr: ":9000"
  enable-metrics: true
patches:
  - path: total
    value: "500"
  - path: people["alice"].age
    value: "30"
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "build/Sample.json", cfg.Layout)
	assert.Equal(t, "Sample", cfg.Contract)
	assert.Equal(t, BackendLevelDB, cfg.Backend)
	assert.Equal(t, "/tmp/state", cfg.DataDir)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, LogConfig{Verbosity: 4, JSON: true}, cfg.Log)
	assert.Equal(t, ":9000", cfg.API.Addr)
	assert.True(t, cfg.API.EnableMetrics)
	assert.Equal(t, []Patch{
		{Path: "total", Value: "500"},
		{Path: `people["alice"].age`, Value: "30"},
	}, cfg.Patches)

	// untouched keys keep their defaults
	assert.Equal(t, "hardhat_setStorageAt", cfg.SetMethod)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "bakend: rpc\n",
		"unknown backend": "backend: redis\n",
		"no data dir":     "backend: leveldb\n",
		"no rpc url":      "rpc-url: \"\"\n",
		"verbosity":       "log:\n  verbosity: 9\n",
		"cache size":      "cache-size: -1\n",
		"patch path":      "patches:\n  - value: \"1\"\n",
		"bad yaml":        "layout: [\n",
	}
	for name, text := range tests {
		_, err := Parse(strings.NewReader(text))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storagepatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sample", cfg.Contract)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "data-dir: /tmp/state")

	back, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
