// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/vechain/storagepatch/log"
)

// RequestLoggerHandler logs every request, body included, before passing it on.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unreadable body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		logger.Info("API Request",
			"URI", r.URL.String(),
			"Method", r.Method,
			"Body", string(body),
		)
		handler.ServeHTTP(w, r)
	})
}
