// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/stakevault/stakevault/metrics"

var (
	metricStoreReads    = metrics.LazyLoadCounter("state_store_reads_count")
	metricAccountWrites = metrics.LazyLoadCounter("state_account_writes_count")
	metricCacheSize     = metrics.LazyLoadGauge("state_cache_size")
	metricCacheHitRate  = metrics.LazyLoadGauge("state_cache_hit_rate_percent")
)
