// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package statedb

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
	"github.com/vechain/storagepatch/test/fixture"
)

var contract = evm.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")

func TestGetSet(t *testing.T) {
	be, err := NewMemory()
	require.NoError(t, err)
	ctx := context.Background()

	slot := evm.MustParseBytes32("0x03")
	got, err := be.GetStorageAt(ctx, contract, slot)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	value := evm.MustParseBytes32("0xdeadbeef")
	require.NoError(t, be.SetStorageAt(ctx, contract, slot, value))

	got, err = be.GetStorageAt(ctx, contract, slot)
	require.NoError(t, err)
	assert.Equal(t, value, got)
	assert.Equal(t, common.Hash(value), be.StateDB().GetState(common.Address(contract), common.Hash(slot)))

	other := evm.MustParseAddress("0x0000000000000000000000000000000000000001")
	got, err = be.GetStorageAt(ctx, other, slot)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "storage is per account")
}

func TestCancelled(t *testing.T) {
	be, err := NewMemory()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = be.GetStorageAt(ctx, contract, evm.Bytes32{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, be.SetStorageAt(ctx, contract, evm.Bytes32{}, evm.Bytes32{}), context.Canceled)
}

func TestPatchState(t *testing.T) {
	be, err := NewMemory()
	require.NoError(t, err)
	idx := fixture.Index()
	ctx := context.Background()

	person := []resolver.Segment{resolver.Key("alice")}
	_, err = storage.SetValue(ctx, idx, be, contract, "people", append(person, resolver.Field("age")), 30)
	require.NoError(t, err)
	_, err = storage.SetValue(ctx, idx, be, contract, "people", append(person, resolver.Field("level")), 3)
	require.NoError(t, err)
	_, err = storage.SetValue(ctx, idx, be, contract, "people", append(person, resolver.Field("active")), true)
	require.NoError(t, err)

	acc := storage.NewAccessor(idx, be, contract)
	values, err := acc.GetValues(ctx, []storage.Query{
		{Variable: "people", Path: append(person, resolver.Field("age"))},
		{Variable: "people", Path: append(person, resolver.Field("level"))},
		{Variable: "people", Path: append(person, resolver.Field("active"))},
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), values[0])
	assert.Equal(t, big.NewInt(3), values[1])
	assert.Equal(t, true, values[2])
}
