// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb keeps contract storage words in a LevelDB database, for offline patching and
// inspection of state snapshots.
//
// A word is stored under the 52-byte key address || slot. Zero words are not stored, so a
// missing key reads as zero, as it does on chain.
package lvldb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/storagepatch/evm"
)

const keyLength = evm.AddressLength + 32

// Options for opening the database. Sizes below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
)

// Backend is a storage backend over LevelDB.
type Backend struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens the database at path, creating it if missing.
func New(path string, opts Options) (*Backend, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open storage file")
	}
	return open(stg, opts)
}

// NewMem creates an in-memory database.
func NewMem() (*Backend, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*Backend, error) {
	cacheSize := max(opts.CacheSize, 16)
	openFiles := max(opts.OpenFilesCacheCapacity, 16)

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: openFiles,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &Backend{db: db, stg: stg}, nil
}

func storageKey(addr evm.Address, slot evm.Bytes32) []byte {
	key := make([]byte, 0, keyLength)
	key = append(key, addr[:]...)
	return append(key, slot[:]...)
}

func (b *Backend) GetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	if err := ctx.Err(); err != nil {
		return evm.Bytes32{}, err
	}
	val, err := b.db.Get(storageKey(addr, slot), &readOpt)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return evm.Bytes32{}, nil
		}
		return evm.Bytes32{}, err
	}
	return evm.BytesToBytes32(val), nil
}

func (b *Backend) SetStorageAt(ctx context.Context, addr evm.Address, slot, value evm.Bytes32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := storageKey(addr, slot)
	if value.IsZero() {
		return b.db.Delete(key, &writeOpt)
	}
	return b.db.Put(key, value[:], &writeOpt)
}

// Import writes many words of one contract in a single batch.
func (b *Backend) Import(addr evm.Address, words map[evm.Bytes32]evm.Bytes32) error {
	batch := &leveldb.Batch{}
	for slot, value := range words {
		key := storageKey(addr, slot)
		if value.IsZero() {
			batch.Delete(key)
		} else {
			batch.Put(key, value[:])
		}
	}
	return b.db.Write(batch, &writeOpt)
}

// Dump calls fn for every non-zero word of addr in ascending slot order. It stops at the first
// error returned by fn.
func (b *Backend) Dump(ctx context.Context, addr evm.Address, fn func(slot, value evm.Bytes32) error) error {
	it := b.db.NewIterator(util.BytesPrefix(addr[:]), &readOpt)
	defer it.Release()

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := it.Key()
		if len(key) != keyLength {
			continue
		}
		if err := fn(evm.BytesToBytes32(key[evm.AddressLength:]), evm.BytesToBytes32(it.Value())); err != nil {
			return err
		}
	}
	return it.Error()
}

// Close closes the database and releases its storage, so the path can be opened again.
// Later operations fail.
func (b *Backend) Close() error {
	err := b.db.Close()
	if serr := b.stg.Close(); err == nil {
		err = serr
	}
	return err
}
