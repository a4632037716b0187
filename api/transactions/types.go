// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/runtime"
)

// RawTx is a signed tx in RLP encoding.
type RawTx struct {
	Raw hexutil.Bytes `json:"raw"`
}

// Receipt is the outcome of a submitted tx.
type Receipt struct {
	TxID     ledger.Bytes32      `json:"txID"`
	Slot     uint64              `json:"slot"`
	Time     uint64              `json:"time"`
	Reverted bool                `json:"reverted"`
	Failed   *Failure            `json:"failed,omitempty"`
	Events   []*events.JSONEvent `json:"events"`
}

// Failure locates the instruction that reverted the tx.
type Failure struct {
	Index uint32 `json:"index"`
	Error string `json:"error"`
	// the program error code, when the failure carries one
	Code *uint32 `json:"code,omitempty"`
}

func convertOutput(programID ledger.Address, out *runtime.Output) *Receipt {
	r := out.Receipt
	res := &Receipt{
		TxID:     r.TxID,
		Slot:     r.Slot,
		Time:     r.Time,
		Reverted: r.Reverted,
		Events:   make([]*events.JSONEvent, len(r.Events)),
	}
	for i, ev := range r.Events {
		res.Events[i] = events.ConvertEvent(programID, logdb.NewEvent(r, uint32(i), ev))
	}
	if out.Err != nil {
		res.Failed = &Failure{Index: out.Err.Index, Error: r.Error}
		if code, ok := staking.CodeOf(out.Err); ok {
			c := uint32(code)
			res.Failed.Code = &c
		}
	}
	return res
}
