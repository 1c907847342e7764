// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package errs defines the error taxonomy shared by layout resolution, value encoding and
// storage access. Every error returned by those packages wraps one of the sentinels below,
// so callers can classify failures with errors.Is.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrUnsupported  = errors.New("unsupported")
	ErrOverflow     = errors.New("overflow")
	ErrPathTooLong  = errors.New("path too long")
	ErrPathTooShort = errors.New("path too short")
	ErrBackend      = errors.New("backend failure")
)

// NotFound reports a missing variable, type or struct field.
func NotFound(format string, args ...any) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// TypeMismatch reports a path segment whose kind does not fit the container it is applied to.
func TypeMismatch(format string, args ...any) error {
	return errors.Wrapf(ErrTypeMismatch, format, args...)
}

// Unsupported reports an encoding the core does not implement.
func Unsupported(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupported, format, args...)
}

// Overflow reports a value that does not fit its declared width.
func Overflow(format string, args ...any) error {
	return errors.Wrapf(ErrOverflow, format, args...)
}

func PathTooLong(format string, args ...any) error {
	return errors.Wrapf(ErrPathTooLong, format, args...)
}

func PathTooShort(format string, args ...any) error {
	return errors.Wrapf(ErrPathTooShort, format, args...)
}

// BackendError annotates a storage backend failure with the contract address and slot
// involved. It unwraps to the backend's own error, and matches ErrBackend.
type BackendError struct {
	Op      string
	Address string
	Slot    string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s storage %s@%s: %v", e.Op, e.Address, e.Slot, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
