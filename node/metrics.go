// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/stakevault/stakevault/metrics"

var (
	metricSlot       = metrics.LazyLoadGauge("node_slot")
	metricTxCount    = metrics.LazyLoadCounterVec("node_tx_count", []string{"result"})
	metricTxDuration = metrics.LazyLoadHistogramVec("node_tx_duration_ms", []string{"result"}, metrics.BucketHTTPReqs)

	metricDroppedSubscribers = metrics.LazyLoadCounter("node_dropped_subscribers_count")
)
