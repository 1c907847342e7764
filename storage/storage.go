// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage reads and writes typed contract state variables through a raw slot backend.
//
// Resolution and encoding happen before any backend call, so a bad path or value never causes
// a partial write. Writing a field that shares its slot with others costs one read and one
// write; the pair is not atomic and concurrent writers to the same slot race.
package storage

import (
	"context"
	"time"

	"github.com/vechain/storagepatch/codec"
	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/log"
	"github.com/vechain/storagepatch/metrics"
	"github.com/vechain/storagepatch/resolver"
)

var (
	logger = log.WithContext("pkg", "storage")

	metricBackendCalls    = metrics.LazyLoadCounterVec("backend_calls_count", []string{"op", "result"})
	metricBackendDuration = metrics.LazyLoadHistogramVec("backend_duration_ms", []string{"op"}, metrics.BucketLatencyMs)
)

// Backend reads and writes raw storage words of a contract.
type Backend interface {
	GetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error)
	SetStorageAt(ctx context.Context, addr evm.Address, slot evm.Bytes32, value evm.Bytes32) error
}

// SetValue writes value to the variable reached from varName along path, and returns the cell
// it wrote.
func SetValue(
	ctx context.Context,
	idx *layout.Index,
	be Backend,
	addr evm.Address,
	varName string,
	path []resolver.Segment,
	value any,
	opts ...resolver.Option,
) (*resolver.Cell, error) {
	cell, err := resolver.Resolve(idx, varName, path, opts...)
	if err != nil {
		return nil, err
	}
	if cell.Type.Kind == layout.Mapping {
		return nil, errs.PathTooShort("%s is a mapping, a key is required to write a value", resolver.FormatPath(varName, path))
	}
	encoded, err := codec.Encode(value, cell.Type)
	if err != nil {
		return nil, err
	}
	if err := WriteCell(ctx, be, addr, cell, encoded); err != nil {
		return nil, err
	}
	logger.Debug("value written",
		"address", addr,
		"path", resolver.FormatPath(varName, path),
		"slot", cell.Slot,
		"offset", cell.Offset,
		"width", cell.Width,
	)
	return cell, nil
}

// GetValue reads the variable reached from varName along path and decodes it.
func GetValue(
	ctx context.Context,
	idx *layout.Index,
	be Backend,
	addr evm.Address,
	varName string,
	path []resolver.Segment,
	opts ...resolver.Option,
) (any, error) {
	cell, err := resolver.Resolve(idx, varName, path, opts...)
	if err != nil {
		return nil, err
	}
	word, err := ReadCell(ctx, be, addr, cell)
	if err != nil {
		return nil, err
	}
	return codec.Decode(word, cell.Type)
}

// WriteCell stores an encoded value, held in the low cell.Width bytes of encoded, into cell.
// Partial cells are merged into the current content of their slot.
func WriteCell(ctx context.Context, be Backend, addr evm.Address, cell *resolver.Cell, encoded evm.Bytes32) error {
	word := encoded
	if !cell.FullWord() {
		current, err := get(ctx, be, addr, cell.Slot)
		if err != nil {
			return err
		}
		if word, err = codec.MergePartialWord(current, encoded, cell.Offset, cell.Width); err != nil {
			return err
		}
	}
	return set(ctx, be, addr, cell.Slot, word)
}

// ReadCell returns the content of cell moved to the low-order end of a word.
func ReadCell(ctx context.Context, be Backend, addr evm.Address, cell *resolver.Cell) (evm.Bytes32, error) {
	word, err := get(ctx, be, addr, cell.Slot)
	if err != nil {
		return evm.Bytes32{}, err
	}
	if cell.FullWord() {
		return word, nil
	}
	return codec.ExtractPartialWord(word, cell.Offset, cell.Width)
}

func get(ctx context.Context, be Backend, addr evm.Address, slot evm.Bytes32) (evm.Bytes32, error) {
	start := time.Now()
	word, err := be.GetStorageAt(ctx, addr, slot)
	observe("get", start, err)
	if err != nil {
		return evm.Bytes32{}, &errs.BackendError{Op: "get", Address: addr.String(), Slot: slot.String(), Err: err}
	}
	return word, nil
}

func set(ctx context.Context, be Backend, addr evm.Address, slot, word evm.Bytes32) error {
	start := time.Now()
	err := be.SetStorageAt(ctx, addr, slot, word)
	observe("set", start, err)
	if err != nil {
		return &errs.BackendError{Op: "set", Address: addr.String(), Slot: slot.String(), Err: err}
	}
	return nil
}

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		logger.Warn("backend call failed", "op", op, "err", err)
	}
	metricBackendCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metricBackendDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
}
