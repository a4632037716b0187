// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/stakevault/stakevault/log"
)

// maximum number of body bytes kept for the log line
const maxLoggedBody = 1024

// RequestLoggerMiddleware logs every request. Requests slower than slowQueriesThreshold
// are logged at warn level; a zero threshold disables the distinction.
func RequestLoggerMiddleware(logger log.Logger, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var bodyBytes []byte
			if r.Body != nil {
				var err error
				bodyBytes, err = io.ReadAll(r.Body)
				if err != nil {
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
						return
					}
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "failed to read body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			duration := time.Since(start)

			if len(bodyBytes) > maxLoggedBody {
				bodyBytes = bodyBytes[:maxLoggedBody]
			}
			ctx := []any{
				"durationMs", duration.Milliseconds(),
				"uri", r.URL.String(),
				"method", r.Method,
				"body", string(bodyBytes),
			}
			if slowQueriesThreshold > 0 && duration > slowQueriesThreshold {
				logger.Warn("slow API request", ctx...)
				return
			}
			logger.Info("API request", ctx...)
		})
	}
}
