// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vechain/storagepatch/codec"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/resolver"
)

// DefaultConcurrency bounds the backend reads GetValues keeps in flight.
const DefaultConcurrency = 8

// Query names a value by its variable and path.
type Query struct {
	Variable string
	Path     []resolver.Segment
}

func (q Query) String() string {
	return resolver.FormatPath(q.Variable, q.Path)
}

// Accessor binds a layout and a backend to one contract address.
type Accessor struct {
	idx         *layout.Index
	backend     Backend
	addr        evm.Address
	opts        []resolver.Option
	concurrency int
}

// NewAccessor creates an accessor. opts apply to every resolution it performs.
func NewAccessor(idx *layout.Index, backend Backend, addr evm.Address, opts ...resolver.Option) *Accessor {
	return &Accessor{
		idx:         idx,
		backend:     backend,
		addr:        addr,
		opts:        opts,
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency sets how many reads GetValues runs at once. n < 1 means no limit.
func (a *Accessor) WithConcurrency(n int) *Accessor {
	cpy := *a
	cpy.concurrency = n
	return &cpy
}

func (a *Accessor) Address() evm.Address { return a.addr }

func (a *Accessor) Index() *layout.Index { return a.idx }

func (a *Accessor) Resolve(q Query) (*resolver.Cell, error) {
	return resolver.Resolve(a.idx, q.Variable, q.Path, a.opts...)
}

func (a *Accessor) SetValue(ctx context.Context, q Query, value any) (*resolver.Cell, error) {
	return SetValue(ctx, a.idx, a.backend, a.addr, q.Variable, q.Path, value, a.opts...)
}

func (a *Accessor) GetValue(ctx context.Context, q Query) (any, error) {
	return GetValue(ctx, a.idx, a.backend, a.addr, q.Variable, q.Path, a.opts...)
}

// GetValues reads several values concurrently. Every query is resolved before the first read,
// so a bad query fails the call without touching the backend. The first read error cancels
// the remaining reads. Results are in query order.
func (a *Accessor) GetValues(ctx context.Context, queries []Query) ([]any, error) {
	cells := make([]*resolver.Cell, len(queries))
	for i, q := range queries {
		cell, err := a.Resolve(q)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}

	values := make([]any, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, cell := range cells {
		g.Go(func() error {
			word, err := ReadCell(ctx, a.backend, a.addr, cell)
			if err != nil {
				return err
			}
			v, err := codec.Decode(word, cell.Type)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
