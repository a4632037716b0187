// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/api/middleware"
	"github.com/stakevault/stakevault/api/staking"
	"github.com/stakevault/stakevault/api/subscriptions"
	"github.com/stakevault/stakevault/api/transactions"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
	// disables POST /transactions
	ReadOnly bool
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	if n.LogDB() != nil {
		events.New(n.Network().ProgramID, n.LogDB(), opts.LogsLimit).
			Mount(router, "/staking/events")
	}
	staking.New(n).
		Mount(router, "/staking")
	if !opts.ReadOnly {
		transactions.New(n).
			Mount(router, "/transactions")
	}
	subs := subscriptions.New(n, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = middleware.RequestLoggerMiddleware(logger, opts.SlowQueriesThreshold)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
