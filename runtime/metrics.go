// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/metrics"
)

var metricInstructionCount = metrics.LazyLoadCounterVec("runtime_instruction_count", []string{"program", "result"})

func programLabel(id ledger.Address) string {
	return id.AbbrevString()
}
