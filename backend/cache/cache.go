// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache wraps a storage backend with an LRU cache of recently read or written words.
//
// Writes go through to the wrapped backend first and update the cache only on success. The
// cache assumes it is the only writer of the contracts it serves; changes made behind its back
// stay invisible until the entry is evicted or Purge is called.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/log"
	"github.com/vechain/storagepatch/metrics"
	"github.com/vechain/storagepatch/storage"
)

var (
	logger = log.WithContext("pkg", "cache")

	metricLookups = metrics.LazyLoadCounterVec("cache_lookups_count", []string{"event"})
)

type key struct {
	addr evm.Address
	slot evm.Bytes32
}

// Backend is a caching storage backend.
type Backend struct {
	next        storage.Backend
	words       *lru.Cache
	stats       Stats
	lastLogTime atomic.Int64

	// mu orders cache fills against writes. writes counts write starts and completions, so a
	// miss fill is dropped if any write overlapped the read.
	mu     sync.Mutex
	writes uint64
}

var _ storage.Backend = (*Backend)(nil)

// New wraps next with a cache of at most size words. size must be > 0.
func New(next storage.Backend, size int) (*Backend, error) {
	words, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	b := &Backend{next: next, words: words}
	b.lastLogTime.Store(time.Now().UnixNano())
	return b, nil
}

func (b *Backend) GetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	defer b.log()

	k := key{addr, slot}
	if v, ok := b.words.Get(k); ok {
		b.stats.Hit()
		metricLookups().AddWithLabel(1, map[string]string{"event": "hit"})
		return v.(evm.Bytes32), nil
	}
	b.stats.Miss()
	metricLookups().AddWithLabel(1, map[string]string{"event": "miss"})

	b.mu.Lock()
	writes := b.writes
	b.mu.Unlock()

	word, err := b.next.GetStorageAt(ctx, addr, slot)
	if err != nil {
		return evm.Bytes32{}, err
	}

	b.mu.Lock()
	if b.writes == writes {
		b.words.Add(k, word)
	}
	b.mu.Unlock()
	return word, nil
}

func (b *Backend) SetStorageAt(ctx context.Context, addr evm.Address, slot, value evm.Bytes32) error {
	k := key{addr, slot}

	b.mu.Lock()
	b.writes++
	started := b.writes
	b.mu.Unlock()

	err := b.next.SetStorageAt(ctx, addr, slot, value)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	// on failure the backend may or may not have applied it, and with overlapping writes the
	// backend order is unknown
	if err != nil || b.writes != started+1 {
		b.words.Remove(k)
	} else {
		b.words.Add(k, value)
	}
	return err
}

// Purge drops every cached word.
func (b *Backend) Purge() {
	b.words.Purge()
}

// Len returns the number of cached words.
func (b *Backend) Len() int {
	return b.words.Len()
}

// Stats returns the number of hits and misses so far.
func (b *Backend) Stats() (hit, miss int64) {
	return b.stats.hit.Load(), b.stats.miss.Load()
}

func (b *Backend) log() {
	now := time.Now().UnixNano()
	last := b.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		if changed, hit, miss := b.stats.Stats(); changed {
			logStats(hit, miss)
		}
	} else {
		b.lastLogTime.CompareAndSwap(now, last)
	}
}

func logStats(hit, miss int64) {
	lookups := hit + miss
	if lookups == 0 {
		return
	}
	logger.Debug("word cache stats",
		"lookups", lookups,
		"hitrate", float64(hit*100/lookups),
	)
}
