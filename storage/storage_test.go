// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/test/fixture"
)

type call struct {
	op    string
	slot  evm.Bytes32
	value evm.Bytes32
}

// recordingBackend keeps words in memory and records every call made to it.
type recordingBackend struct {
	mu     sync.Mutex
	words  map[evm.Bytes32]evm.Bytes32
	calls  []call
	getErr error
	setErr error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{words: make(map[evm.Bytes32]evm.Bytes32)}
}

func (b *recordingBackend) GetStorageAt(_ context.Context, _ evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call{op: "get", slot: slot})
	if b.getErr != nil {
		return evm.Bytes32{}, b.getErr
	}
	return b.words[slot], nil
}

func (b *recordingBackend) SetStorageAt(_ context.Context, _ evm.Address, slot, value evm.Bytes32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call{op: "set", slot: slot, value: value})
	if b.setErr != nil {
		return b.setErr
	}
	b.words[slot] = value
	return nil
}

func (b *recordingBackend) ops() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ops := make([]string, 0, len(b.calls))
	for _, c := range b.calls {
		ops = append(ops, c.op)
	}
	return ops
}

var (
	sample   = fixture.Index()
	contract = evm.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
)

func TestSetValueFullWord(t *testing.T) {
	be := newRecordingBackend()
	key := evm.MustParseAddress("0x0000000000000000000000000000000000000001")

	cell, err := SetValue(context.Background(), sample, be, contract, "balances", []resolver.Segment{resolver.Key(key)}, 500)
	require.NoError(t, err)

	want := evm.Bytes32(crypto.Keccak256Hash(common.LeftPadBytes(key[:], 32), common.LeftPadBytes([]byte{3}, 32)))
	assert.Equal(t, want, cell.Slot)

	require.Len(t, be.calls, 1, "one set and no get")
	assert.Equal(t, call{op: "set", slot: want, value: evm.MustParseBytes32("0x01f4")}, be.calls[0])

	got, err := GetValue(context.Background(), sample, be, contract, "balances", []resolver.Segment{resolver.Raw(key.String())})
	require.NoError(t, err)
	assert.Equal(t, "500", got.(*big.Int).String())
}

func TestSetValuePacked(t *testing.T) {
	be := newRecordingBackend()
	slot1 := evm.MustParseBytes32("0x01")
	be.words[slot1] = evm.MustParseBytes32("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	cell, err := SetValue(context.Background(), sample, be, contract, "delta", nil, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, cell.Offset)
	assert.Equal(t, 2, cell.Width)

	assert.Equal(t, []string{"get", "set"}, be.ops())
	assert.Equal(t,
		evm.MustParseBytes32("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa0007aa"),
		be.words[slot1],
		"only the field bytes change")

	// neighbours read back untouched
	v, err := GetValue(context.Background(), sample, be, contract, "small", nil)
	require.NoError(t, err)
	assert.Equal(t, "170", v.(*big.Int).String())

	_, err = SetValue(context.Background(), sample, be, contract, "delta", nil, -2)
	require.NoError(t, err)
	v, err = GetValue(context.Background(), sample, be, contract, "delta", nil)
	require.NoError(t, err)
	assert.Equal(t, "-2", v.(*big.Int).String())
	assert.Equal(t,
		evm.MustParseBytes32("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaafffeaa"),
		be.words[slot1])
}

func TestOwnerAndFlag(t *testing.T) {
	be := newRecordingBackend()
	ctx := context.Background()

	_, err := SetValue(ctx, sample, be, contract, "owner", nil, contract)
	require.NoError(t, err)
	_, err = SetValue(ctx, sample, be, contract, "flag", nil, true)
	require.NoError(t, err)

	owner, err := GetValue(ctx, sample, be, contract, "owner", nil)
	require.NoError(t, err)
	assert.Equal(t, contract, owner)

	flag, err := GetValue(ctx, sample, be, contract, "flag", nil)
	require.NoError(t, err)
	assert.Equal(t, true, flag)
}

func TestShortStringAndLength(t *testing.T) {
	be := newRecordingBackend()
	ctx := context.Background()

	_, err := SetValue(ctx, sample, be, contract, "name", nil, "Hello")
	require.NoError(t, err)
	assert.Equal(t,
		evm.MustParseBytes32("0x48656c6c6f00000000000000000000000000000000000000000000000000000a"),
		be.words[evm.MustParseBytes32("0x02")])

	name, err := GetValue(ctx, sample, be, contract, "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello", name)

	_, err = SetValue(ctx, sample, be, contract, "items", []resolver.Segment{resolver.Length{}}, 3)
	require.NoError(t, err)
	n, err := GetValue(ctx, sample, be, contract, "items", nil)
	require.NoError(t, err)
	assert.Equal(t, "3", n.(*big.Int).String())
}

func TestErrorsBeforeBackend(t *testing.T) {
	tests := []struct {
		name    string
		varName string
		path    []resolver.Segment
		value   any
		want    error
	}{
		{"unknown variable", "nope", nil, 1, errs.ErrNotFound},
		{"overflow", "small", nil, 256, errs.ErrOverflow},
		{"mapping cell", "balances", nil, 1, errs.ErrPathTooShort},
		{"nested mapping cell", "allowed", []resolver.Segment{resolver.Raw(contract.String())}, true, errs.ErrPathTooShort},
		{"long string", "name", nil, "a string that is longer than thirty one bytes", errs.ErrUnsupported},
		{"wrong segment", "person", []resolver.Segment{resolver.Index(1)}, 1, errs.ErrTypeMismatch},
		{"past scalar", "total", []resolver.Segment{resolver.Raw("x")}, 1, errs.ErrPathTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newRecordingBackend()
			_, err := SetValue(context.Background(), sample, be, contract, tt.varName, tt.path, tt.value)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, be.calls)
		})
	}
}

func TestBackendFailure(t *testing.T) {
	cause := errors.New("connection refused")

	be := newRecordingBackend()
	be.getErr = cause
	_, err := SetValue(context.Background(), sample, be, contract, "flag", nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBackend))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), contract.String())
	assert.Equal(t, []string{"get"}, be.ops(), "no write after a failed read")

	be2 := newRecordingBackend()
	be2.setErr = cause
	_, err = SetValue(context.Background(), sample, be2, contract, "total", nil, 1)
	var backendErr *errs.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "set", backendErr.Op)
	assert.Equal(t, evm.MustParseBytes32("0x00").String(), backendErr.Slot)
}

func TestConcurrentFullWordWrites(t *testing.T) {
	be := newRecordingBackend()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := SetValue(context.Background(), sample, be, contract, "values", []resolver.Segment{resolver.Index(uint64(i))}, i)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, be.calls, 32)
	for i := range 32 {
		assert.Equal(t, evm.BytesToBytes32(big.NewInt(int64(i)).Bytes()), be.words[evm.BytesToBytes32(big.NewInt(int64(8+i)).Bytes())])
	}
}
