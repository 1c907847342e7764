// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rpc

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
	"github.com/vechain/storagepatch/test/fixture"
)

type slotKey struct {
	addr common.Address
	slot string
}

// devNode mimics the storage methods of a development node.
type devNode struct {
	mu     sync.Mutex
	words  map[slotKey]hexutil.Bytes
	blocks []string
	long   bool
}

func (n *devNode) GetStorageAt(addr common.Address, slot hexutil.Big, block string) (hexutil.Bytes, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.blocks = append(n.blocks, block)
	if n.long {
		return make(hexutil.Bytes, 33), nil
	}
	if w, ok := n.words[slotKey{addr, slot.String()}]; ok {
		return w, nil
	}
	return make(hexutil.Bytes, 32), nil
}

func (n *devNode) SetStorageAt(addr common.Address, slot hexutil.Big, value hexutil.Bytes) (bool, error) {
	if len(value) != 32 {
		return false, errors.New("value must be 32 bytes")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.words[slotKey{addr, slot.String()}] = value
	return true, nil
}

func newDevNode(t *testing.T, namespaces ...string) (*devNode, *rpc.Client) {
	node := &devNode{words: make(map[slotKey]hexutil.Bytes)}
	server := rpc.NewServer()
	for _, ns := range append([]string{"eth"}, namespaces...) {
		require.NoError(t, server.RegisterName(ns, node))
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return node, client
}

var contract = evm.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")

func TestQuantity(t *testing.T) {
	assert.Equal(t, "0x0", quantity(evm.Bytes32{}))
	assert.Equal(t, "0x1f4", quantity(evm.MustParseBytes32("0x01f4")))
	assert.Equal(t, "0x"+common.Bytes2Hex(bytesOf(0xff)), quantity(evm.BytesToBytes32(bytesOf(0xff))))
}

func bytesOf(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestGetSet(t *testing.T) {
	node, client := newDevNode(t, "hardhat")
	be := New(client)
	ctx := context.Background()

	slot := evm.MustParseBytes32("0x05")
	value := evm.MustParseBytes32("0x01f4")
	require.NoError(t, be.SetStorageAt(ctx, contract, slot, value))
	assert.Equal(t, hexutil.Bytes(value[:]), node.words[slotKey{common.Address(contract), "0x5"}])

	got, err := be.GetStorageAt(ctx, contract, slot)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	got, err = be.GetStorageAt(ctx, contract, evm.MustParseBytes32("0x06"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Equal(t, []string{"latest", "latest"}, node.blocks)
}

func TestOptions(t *testing.T) {
	node, client := newDevNode(t, "anvil")
	be := New(client, WithSetMethod("anvil_setStorageAt"), WithBlock("pending"), WithSetMethod(""))
	ctx := context.Background()

	require.NoError(t, be.SetStorageAt(ctx, contract, evm.Bytes32{}, evm.MustParseBytes32("0x01")))
	_, err := be.GetStorageAt(ctx, contract, evm.Bytes32{})
	require.NoError(t, err)
	assert.Equal(t, []string{"pending"}, node.blocks)

	// hardhat namespace is not served
	err = New(client).SetStorageAt(ctx, contract, evm.Bytes32{}, evm.Bytes32{})
	assert.Error(t, err)
}

func TestOversizedWord(t *testing.T) {
	node, client := newDevNode(t)
	node.long = true
	_, err := New(client).GetStorageAt(context.Background(), contract, evm.Bytes32{})
	assert.ErrorContains(t, err, "33 bytes")
}

func TestStorageThroughRPC(t *testing.T) {
	_, client := newDevNode(t, "hardhat")
	be := New(client)
	idx := fixture.Index()
	ctx := context.Background()

	path := []resolver.Segment{resolver.Raw("0x0000000000000000000000000000000000000001")}
	_, err := storage.SetValue(ctx, idx, be, contract, "balances", path, 500)
	require.NoError(t, err)
	_, err = storage.SetValue(ctx, idx, be, contract, "flag", nil, true)
	require.NoError(t, err)

	v, err := storage.GetValue(ctx, idx, be, contract, "balances", path)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), v)

	v, err = storage.GetValue(ctx, idx, be, contract, "flag", nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// unknown set method surfaces as a backend failure
	_, err = storage.SetValue(ctx, idx, New(client, WithSetMethod("nope_setStorageAt")), contract, "total", nil, 1)
	assert.True(t, errors.Is(err, errs.ErrBackend))
}

func TestDialError(t *testing.T) {
	_, err := Dial(context.Background(), "unknown://host")
	assert.Error(t, err)
}
