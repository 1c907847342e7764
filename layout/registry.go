// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layout

import (
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

type registryKey struct {
	path     string
	contract string
	modTime  int64
	size     int64
}

// Registry caches indexes of layout files, so a long running process parses each
// artifact once. An entry is keyed by the file's modification time and size as well, so a
// rewritten file is parsed again. Returned indexes are shared and must be treated as read-only.
type Registry struct {
	cache *lru.Cache
	load  func(path, contract string) (*Index, error)
}

// NewRegistry creates a registry keeping at most size indexes.
// size should be > 0, or an error returned.
func NewRegistry(size int) (*Registry, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache, load: Load}, nil
}

// Load returns the index of the contract's layout in the file, loading it on a miss.
func (r *Registry) Load(path, contract string) (*Index, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat layout")
	}
	key := registryKey{path, contract, fi.ModTime().UnixNano(), fi.Size()}
	if v, ok := r.cache.Get(key); ok {
		return v.(*Index), nil
	}
	idx, err := r.load(path, contract)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, idx)
	return idx, nil
}

// Purge drops all cached indexes.
func (r *Registry) Purge() {
	r.cache.Purge()
}
