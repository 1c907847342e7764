// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vechain/storagepatch/errs"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError creates an error answered with the given status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest creates an error answered with 400.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// StatusOf maps an error to the status code it is answered with. Errors from the resolution
// and encoding taxonomy are client errors, backend failures are a bad gateway, everything
// else is internal.
func StatusOf(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.status
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrTypeMismatch),
		errors.Is(err, errs.ErrOverflow),
		errors.Is(err, errs.ErrUnsupported),
		errors.Is(err, errs.ErrPathTooLong),
		errors.Is(err, errs.ErrPathTooShort):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrBackend):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// HandlerFunc is like http.HandlerFunc but returns an error, which WrapHandlerFunc answers
// with the status picked by StatusOf.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts a HandlerFunc to a http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			http.Error(w, err.Error(), StatusOf(err))
		}
	}
}

const JSONContentType = "application/json; charset=utf-8"

// ParseJSON decodes a JSON object, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON answers with obj encoded as JSON.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
