// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rpc reads and writes contract storage on a development node over JSON-RPC.
//
// Reads use eth_getStorageAt. Writes use a node specific method such as hardhat_setStorageAt
// or anvil_setStorageAt, which take the slot as a quantity and the value as 32 bytes of data.
package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/evm"
)

const (
	DefaultSetMethod = "hardhat_setStorageAt"
	DefaultBlock     = "latest"
)

// Backend is a storage backend talking to a JSON-RPC endpoint.
type Backend struct {
	client    *rpc.Client
	setMethod string
	block     string
}

type Option func(*Backend)

// WithSetMethod selects the JSON-RPC method used for writes.
func WithSetMethod(method string) Option {
	return func(b *Backend) {
		if method != "" {
			b.setMethod = method
		}
	}
}

// WithBlock selects the block tag or number reads are made against.
func WithBlock(block string) Option {
	return func(b *Backend) {
		if block != "" {
			b.block = block
		}
	}
}

// New wraps an established client.
func New(client *rpc.Client, opts ...Option) *Backend {
	b := &Backend{
		client:    client,
		setMethod: DefaultSetMethod,
		block:     DefaultBlock,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dial connects to url, which may be http(s), ws(s) or an IPC path.
func Dial(ctx context.Context, url string, opts ...Option) (*Backend, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return New(client, opts...), nil
}

func (b *Backend) GetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	var result hexutil.Bytes
	if err := b.client.CallContext(ctx, &result, "eth_getStorageAt", common.Address(addr), quantity(slot), b.block); err != nil {
		return evm.Bytes32{}, err
	}
	if len(result) > 32 {
		return evm.Bytes32{}, errors.Errorf("eth_getStorageAt returned %d bytes", len(result))
	}
	return evm.BytesToBytes32(result), nil
}

func (b *Backend) SetStorageAt(ctx context.Context, addr evm.Address, slot, value evm.Bytes32) error {
	return b.client.CallContext(ctx, nil, b.setMethod, common.Address(addr), quantity(slot), hexutil.Encode(value[:]))
}

func (b *Backend) Close() {
	b.client.Close()
}

// quantity renders a slot as a JSON-RPC quantity: 0x prefixed hex without leading zeros.
func quantity(slot evm.Bytes32) string {
	return hexutil.EncodeBig(slot.Uint256().ToBig())
}
