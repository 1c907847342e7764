// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/storagepatch/api/utils"
	"github.com/vechain/storagepatch/codec"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
)

// Storage serves one layout.
type Storage struct {
	idx     *layout.Index
	backend storage.Backend
	opts    []resolver.Option
}

func NewStorage(idx *layout.Index, backend storage.Backend, opts ...resolver.Option) *Storage {
	return &Storage{idx: idx, backend: backend, opts: opts}
}

func (s *Storage) handleGetVariables(w http.ResponseWriter, _ *http.Request) error {
	vars := s.idx.Variables()
	out := make([]*Variable, 0, len(vars))
	for _, v := range vars {
		t, err := s.idx.FindType(v.Type)
		if err != nil {
			return err
		}
		out = append(out, &Variable{
			Label:    v.Label,
			Slot:     v.Slot,
			Offset:   v.Offset,
			Type:     v.Type,
			TypeName: t.Label,
			Encoding: t.Kind.String(),
			Size:     t.Size,
		})
	}
	return utils.WriteJSON(w, out)
}

func (s *Storage) handleResolve(w http.ResponseWriter, req *http.Request) error {
	var p Path
	if err := utils.ParseJSON(req.Body, &p); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	varName, path, err := p.segments()
	if err != nil {
		return utils.BadRequest(err)
	}
	cell, err := resolver.Resolve(s.idx, varName, path, s.opts...)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, newCell(cell))
}

func (s *Storage) accessor(req *http.Request) (*storage.Accessor, error) {
	addr, err := evm.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return storage.NewAccessor(s.idx, s.backend, *addr, s.opts...), nil
}

func (s *Storage) handleGetValue(w http.ResponseWriter, req *http.Request) error {
	acc, err := s.accessor(req)
	if err != nil {
		return err
	}
	query := req.URL.Query()
	p := Path{
		Expr:     query.Get("expr"),
		Variable: query.Get("variable"),
		Path:     query["path"],
	}
	varName, path, err := p.segments()
	if err != nil {
		return utils.BadRequest(err)
	}

	q := storage.Query{Variable: varName, Path: path}
	cell, err := acc.Resolve(q)
	if err != nil {
		return err
	}
	v, err := acc.GetValue(req.Context(), q)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Value{Cell: *newCell(cell), Value: codec.Format(v)})
}

func (s *Storage) handleSetValue(w http.ResponseWriter, req *http.Request) error {
	acc, err := s.accessor(req)
	if err != nil {
		return err
	}
	var body SetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	varName, path, err := body.segments()
	if err != nil {
		return utils.BadRequest(err)
	}

	q := storage.Query{Variable: varName, Path: path}
	cell, err := acc.Resolve(q)
	if err != nil {
		return err
	}
	value, err := codec.ParseValue(body.Value, cell.Type)
	if err != nil {
		return err
	}
	if cell, err = acc.SetValue(req.Context(), q, value); err != nil {
		return err
	}
	logger.Info("storage patched", "address", acc.Address(), "path", q, "slot", cell.Slot)
	return utils.WriteJSON(w, &Value{Cell: *newCell(cell), Value: codec.Format(value)})
}

func (s *Storage) Mount(root *mux.Router, pathPrefix string) {
	sub := root
	if pathPrefix != "" {
		sub = root.PathPrefix(pathPrefix).Subrouter()
	}

	sub.Path("/layout/variables").
		Methods(http.MethodGet).
		Name("GET /layout/variables").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetVariables))
	sub.Path("/resolve").
		Methods(http.MethodPost).
		Name("POST /resolve").
		HandlerFunc(utils.WrapHandlerFunc(s.handleResolve))
	sub.Path("/storage/{address}").
		Methods(http.MethodGet).
		Name("GET /storage/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetValue))
	sub.Path("/storage/{address}").
		Methods(http.MethodPost).
		Name("POST /storage/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetValue))
}
