// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves layout inspection, slot resolution and typed storage access over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/storagepatch/layout"
	"github.com/vechain/storagepatch/log"
	"github.com/vechain/storagepatch/metrics"
	"github.com/vechain/storagepatch/resolver"
	"github.com/vechain/storagepatch/storage"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableMetrics   bool
	EnableReqLogger bool
	ResolveOptions  []resolver.Option
}

// New returns the API handler for one layout served from backend.
func New(idx *layout.Index, backend storage.Backend, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	NewStorage(idx, backend, opts.ResolveOptions...).Mount(router, "")

	if opts.EnableMetrics {
		router.Path("/metrics").Methods(http.MethodGet).Name("metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler
}
