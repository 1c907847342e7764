// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package statedb serves contract storage from a go-ethereum state database, either one the
// caller already holds (for example inside a simulation) or a fresh in-memory one.
package statedb

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/evm"
)

// Backend reads and writes storage of a vm.StateDB. The state database itself is not safe for
// concurrent use, so calls are serialized.
type Backend struct {
	mu sync.Mutex
	db vm.StateDB
}

func New(db vm.StateDB) *Backend {
	return &Backend{db: db}
}

// NewMemory creates a backend over an empty in-memory state.
func NewMemory() (*Backend, error) {
	db, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, errors.Wrap(err, "create in-memory state")
	}
	return New(db), nil
}

func (b *Backend) GetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	if err := ctx.Err(); err != nil {
		return evm.Bytes32{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return evm.Bytes32(b.db.GetState(common.Address(addr), slot.Hash())), nil
}

func (b *Backend) SetStorageAt(ctx context.Context, addr evm.Address, slot, value evm.Bytes32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db.SetState(common.Address(addr), slot.Hash(), value.Hash())
	return nil
}

// StateDB returns the underlying database. Callers must not use it concurrently with the
// backend.
func (b *Backend) StateDB() vm.StateDB {
	return b.db
}
