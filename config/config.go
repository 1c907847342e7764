// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the YAML configuration file. Command line flags override it.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendRPC     = "rpc"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

type Config struct {
	Layout     string `yaml:"layout"`
	Contract   string `yaml:"contract"`
	Address    string `yaml:"address"`
	PackArrays bool   `yaml:"pack-arrays"`

	Backend   string `yaml:"backend"`
	RPCURL    string `yaml:"rpc-url"`
	SetMethod string `yaml:"set-method"`
	DataDir   string `yaml:"data-dir"`
	CacheSize int    `yaml:"cache-size"`

	Log LogConfig `yaml:"log"`
	API APIConfig `yaml:"api"`

	// Patches are applied in order by the set command when it is given no arguments.
	Patches []Patch `yaml:"patches"`
}

type LogConfig struct {
	Verbosity int  `yaml:"verbosity"`
	JSON      bool `yaml:"json"`
}

type APIConfig struct {
	Addr            string `yaml:"addr"`
	Cors            string `yaml:"cors"`
	EnableMetrics   bool   `yaml:"enable-metrics"`
	EnableReqLogger bool   `yaml:"enable-request-logger"`
}

// Patch assigns Value, in its textual form, to the value at Path, for example
// `balances[0xab..]` or `people["alice"].age`.
type Patch struct {
	Path  string `yaml:"path"`
	Value string `yaml:"value"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend:   BackendRPC,
		RPCURL:    "http://localhost:8545",
		SetMethod: "hardhat_setStorageAt",
		CacheSize: 4096,
		Log:       LogConfig{Verbosity: 3},
		API:       APIConfig{Addr: "localhost:8670"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are an error.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on the command being run.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendRPC:
		if c.RPCURL == "" {
			return errors.New("rpc backend requires rpc-url")
		}
	case BackendLevelDB:
		if c.DataDir == "" {
			return errors.New("leveldb backend requires data-dir")
		}
	case BackendMemory:
	default:
		return errors.Errorf("unknown backend %q, want rpc, leveldb or memory", c.Backend)
	}
	if c.CacheSize < 0 {
		return errors.New("cache-size must not be negative")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return errors.Errorf("verbosity %d out of range 0..5", c.Log.Verbosity)
	}
	for i, p := range c.Patches {
		if p.Path == "" {
			return errors.Errorf("patch %d has no path", i)
		}
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
