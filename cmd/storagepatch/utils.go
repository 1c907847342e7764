// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/storagepatch/backend/cache"
	"github.com/vechain/storagepatch/backend/lvldb"
	"github.com/vechain/storagepatch/backend/rpc"
	"github.com/vechain/storagepatch/backend/statedb"
	"github.com/vechain/storagepatch/config"
	"github.com/vechain/storagepatch/evm"
	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/log"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
)

var logger = log.WithContext("pkg", "cmd")

// layouts caches parsed layouts, so several commands run in one process parse each file once.
var layouts = func() *layout.Registry {
	r, err := layout.NewRegistry(8)
	if err != nil {
		panic(err)
	}
	return r
}()

// loadConfig reads the config file, if any, and applies the flags set on the command line.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	setString := func(flag cli.StringFlag, dst *string) {
		if ctx.IsSet(flag.Name) {
			*dst = ctx.String(flag.Name)
		}
	}
	setBool := func(flag cli.BoolFlag, dst *bool) {
		if ctx.IsSet(flag.Name) {
			*dst = ctx.Bool(flag.Name)
		}
	}
	setInt := func(flag cli.IntFlag, dst *int) {
		if ctx.IsSet(flag.Name) {
			*dst = ctx.Int(flag.Name)
		}
	}

	setString(layoutFlag, &cfg.Layout)
	setString(contractFlag, &cfg.Contract)
	setString(addressFlag, &cfg.Address)
	setBool(packArraysFlag, &cfg.PackArrays)
	setString(backendFlag, &cfg.Backend)
	setString(rpcURLFlag, &cfg.RPCURL)
	setString(setMethodFlag, &cfg.SetMethod)
	setString(dataDirFlag, &cfg.DataDir)
	setInt(cacheSizeFlag, &cfg.CacheSize)
	setInt(verbosityFlag, &cfg.Log.Verbosity)
	setBool(logJSONFlag, &cfg.Log.JSON)
	setString(apiAddrFlag, &cfg.API.Addr)
	setString(apiCorsFlag, &cfg.API.Cors)
	setBool(enableAPILogsFlag, &cfg.API.EnableReqLogger)
	setBool(enableMetricsFlag, &cfg.API.EnableMetrics)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	log.Init(os.Stderr, cfg.Log.Verbosity, cfg.Log.JSON)
}

func loadLayout(cfg *config.Config) (*layout.Index, error) {
	if cfg.Layout == "" {
		return nil, errors.New("a storage layout is required (--layout)")
	}
	return layouts.Load(cfg.Layout, cfg.Contract)
}

func resolveOptions(cfg *config.Config) []resolver.Option {
	return []resolver.Option{resolver.PackArrays(cfg.PackArrays)}
}

func contractAddress(cfg *config.Config) (evm.Address, error) {
	if cfg.Address == "" {
		return evm.Address{}, errors.New("a contract address is required (--address)")
	}
	addr, err := evm.ParseAddress(cfg.Address)
	if err != nil {
		return evm.Address{}, errors.WithMessage(err, "address")
	}
	return *addr, nil
}

// openBackend opens the configured backend, wrapped in a word cache unless disabled. The
// returned function releases it.
func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func(), error) {
	var (
		be      storage.Backend
		release func()
	)
	switch cfg.Backend {
	case config.BackendRPC:
		client, err := rpc.Dial(ctx, cfg.RPCURL, rpc.WithSetMethod(cfg.SetMethod))
		if err != nil {
			return nil, nil, err
		}
		be, release = client, client.Close
	case config.BackendLevelDB:
		db, err := openLevelDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		be, release = db, func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close leveldb", "err", err)
			}
		}
	case config.BackendMemory:
		mem, err := statedb.NewMemory()
		if err != nil {
			return nil, nil, err
		}
		be, release = mem, func() {}
	default:
		return nil, nil, errors.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		cached, err := cache.New(be, cfg.CacheSize)
		if err != nil {
			release()
			return nil, nil, err
		}
		be = cached
	}
	logger.Debug("backend opened", "kind", cfg.Backend, "cache", cfg.CacheSize)
	return be, release, nil
}

func openLevelDB(cfg *config.Config) (*lvldb.Backend, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("the leveldb backend requires --data-dir")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return lvldb.New(cfg.DataDir, lvldb.Options{})
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// startAPIServer serves handler on addr in the background. It returns the base URL and a
// function that shuts the server down.
func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("API server stopped", "err", err)
		}
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("API server shutdown", "err", err)
		}
		<-done
	}, nil
}
