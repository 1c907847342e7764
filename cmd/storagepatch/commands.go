// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/storagepatch/api"
	"github.com/vechain/storagepatch/codec"
	"github.com/vechain/storagepatch/config"
	"github.com/vechain/storagepatch/errs"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/metrics"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
)

// setup loads the configuration and the layout every command needs.
func setup(ctx *cli.Context) (*config.Config, *layout.Index, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	initLogger(cfg)
	idx, err := loadLayout(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, idx, nil
}

// openAccessor opens the backend and binds it to the configured contract.
func openAccessor(ctx context.Context, cfg *config.Config, idx *layout.Index) (*storage.Accessor, func(), error) {
	addr, err := contractAddress(cfg)
	if err != nil {
		return nil, nil, err
	}
	be, release, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewAccessor(idx, be, addr, resolveOptions(cfg)...), release, nil
}

func parseQuery(expr string) (storage.Query, error) {
	varName, path, err := resolver.ParsePath(expr)
	if err != nil {
		return storage.Query{}, err
	}
	return storage.Query{Variable: varName, Path: path}, nil
}

func varsAction(ctx *cli.Context) error {
	_, idx, err := setup(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tSLOT\tOFFSET\tTYPE\tENCODING")
	for _, v := range idx.Variables() {
		t, err := idx.FindType(v.Type)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", v.Label, v.Slot.Dec(), v.Offset, t.Label, t.Kind)
	}
	return w.Flush()
}

func resolveAction(ctx *cli.Context) error {
	cfg, idx, err := setup(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return errors.New("at least one path is required")
	}

	for _, expr := range ctx.Args() {
		q, err := parseQuery(expr)
		if err != nil {
			return err
		}
		cell, err := resolver.Resolve(idx, q.Variable, q.Path, resolveOptions(cfg)...)
		if err != nil {
			return errors.WithMessage(err, expr)
		}
		fmt.Fprintf(ctx.App.Writer, "%s\tslot=%s offset=%d width=%d type=%s\n",
			expr, cell.Slot, cell.Offset, cell.Width, cell.Type.Label)
	}
	return nil
}

func getAction(ctx *cli.Context) error {
	cfg, idx, err := setup(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return errors.New("at least one path is required")
	}

	queries := make([]storage.Query, 0, ctx.NArg())
	for _, expr := range ctx.Args() {
		q, err := parseQuery(expr)
		if err != nil {
			return err
		}
		queries = append(queries, q)
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	acc, release, err := openAccessor(exitCtx, cfg, idx)
	if err != nil {
		return err
	}
	defer release()

	values, err := acc.GetValues(exitCtx, queries)
	if err != nil {
		return err
	}
	for i, v := range values {
		fmt.Fprintf(ctx.App.Writer, "%s = %s\n", ctx.Args()[i], codec.Format(v))
	}
	return nil
}

type patch struct {
	expr  string
	query storage.Query
	value any
}

// preparePatches resolves and parses every patch, so nothing is written unless all of them
// are valid.
func preparePatches(acc *storage.Accessor, pairs []config.Patch) ([]patch, error) {
	patches := make([]patch, 0, len(pairs))
	for _, p := range pairs {
		q, err := parseQuery(p.Path)
		if err != nil {
			return nil, err
		}
		cell, err := acc.Resolve(q)
		if err != nil {
			return nil, errors.WithMessage(err, p.Path)
		}
		if cell.Type.Kind == layout.Mapping {
			return nil, errs.PathTooShort("%s is a mapping, a key is required to write a value", p.Path)
		}
		value, err := codec.ParseValue(p.Value, cell.Type)
		if err != nil {
			return nil, errors.WithMessage(err, p.Path)
		}
		if _, err := codec.Encode(value, cell.Type); err != nil {
			return nil, errors.WithMessage(err, p.Path)
		}
		patches = append(patches, patch{expr: p.Path, query: q, value: value})
	}
	return patches, nil
}

func setAction(ctx *cli.Context) error {
	cfg, idx, err := setup(ctx)
	if err != nil {
		return err
	}

	pairs := cfg.Patches
	if ctx.NArg() > 0 {
		if ctx.NArg()%2 != 0 {
			return errors.New("arguments must be <path> <value> pairs")
		}
		pairs = nil
		for i := 0; i < ctx.NArg(); i += 2 {
			pairs = append(pairs, config.Patch{Path: ctx.Args()[i], Value: ctx.Args()[i+1]})
		}
	}
	if len(pairs) == 0 {
		return errors.New("nothing to set")
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	acc, release, err := openAccessor(exitCtx, cfg, idx)
	if err != nil {
		return err
	}
	defer release()

	patches, err := preparePatches(acc, pairs)
	if err != nil {
		return err
	}
	for _, p := range patches {
		cell, err := acc.SetValue(exitCtx, p.query, p.value)
		if err != nil {
			return errors.WithMessage(err, p.expr)
		}
		logger.Info("storage patched", "path", p.expr, "slot", cell.Slot, "offset", cell.Offset)
		fmt.Fprintf(ctx.App.Writer, "%s = %s\tslot=%s offset=%d\n", p.expr, codec.Format(p.value), cell.Slot, cell.Offset)
	}
	return nil
}

func dumpAction(ctx *cli.Context) error {
	cfg, idx, err := setup(ctx)
	if err != nil {
		return err
	}
	if cfg.Backend != config.BackendLevelDB {
		return errors.Errorf("dump needs the leveldb backend, not %s", cfg.Backend)
	}
	addr, err := contractAddress(cfg)
	if err != nil {
		return err
	}
	db, err := openLevelDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// label the slots state variables are declared at
	labels := make(map[evm.Bytes32][]string)
	for _, v := range idx.Variables() {
		slot := evm.Uint256ToBytes32(&v.Slot.Int)
		labels[slot] = append(labels[slot], v.Label)
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	return db.Dump(exitCtx, addr, func(slot, value evm.Bytes32) error {
		_, err := fmt.Fprintf(ctx.App.Writer, "%s %s", slot, value)
		if err != nil {
			return err
		}
		if names := labels[slot]; len(names) > 0 {
			fmt.Fprintf(ctx.App.Writer, "\t%v", names)
		}
		fmt.Fprintln(ctx.App.Writer)
		return nil
	})
}

// layoutHandler serves the API of the current layout. reload swaps in a new handler when the
// layout file changed since it was last loaded.
type layoutHandler struct {
	cfg     *config.Config
	backend storage.Backend
	idx     *layout.Index
	handler atomic.Value // http.Handler
}

func newLayoutHandler(cfg *config.Config, be storage.Backend, idx *layout.Index) *layoutHandler {
	h := &layoutHandler{cfg: cfg, backend: be}
	h.build(idx)
	return h
}

func (h *layoutHandler) build(idx *layout.Index) {
	h.idx = idx
	h.handler.Store(api.New(idx, h.backend, api.Options{
		AllowedOrigins:  h.cfg.API.Cors,
		EnableMetrics:   h.cfg.API.EnableMetrics,
		EnableReqLogger: h.cfg.API.EnableReqLogger,
		ResolveOptions:  resolveOptions(h.cfg),
	}))
}

func (h *layoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.Load().(http.Handler).ServeHTTP(w, r)
}

// reload loads the layout through the registry, so an unchanged file is not parsed again.
func (h *layoutHandler) reload() (bool, error) {
	idx, err := loadLayout(h.cfg)
	if err != nil {
		return false, err
	}
	if idx == h.idx {
		return false, nil
	}
	h.build(idx)
	return true, nil
}

func serveAction(ctx *cli.Context) error {
	cfg, idx, err := setup(ctx)
	if err != nil {
		return err
	}
	if cfg.API.EnableMetrics {
		metrics.Enable()
	}

	exitCtx, cancel := handleExitSignal()
	defer cancel()

	be, release, err := openBackend(exitCtx, cfg)
	if err != nil {
		return err
	}
	defer release()

	handler := newLayoutHandler(cfg, be, idx)
	url, stop, err := startAPIServer(cfg.API.Addr, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stop() }()

	logger.Info("API server started", "url", url, "layout", cfg.Layout, "backend", cfg.Backend)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-exitCtx.Done():
			return nil
		case <-hup:
			changed, err := handler.reload()
			if err != nil {
				logger.Warn("failed to reload layout", "layout", cfg.Layout, "err", err)
				continue
			}
			logger.Info("layout reloaded", "layout", cfg.Layout, "changed", changed)
		}
	}
}
