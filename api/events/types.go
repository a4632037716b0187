// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
)

// JSONEvent is an emitted event with its position in the ledger.
type JSONEvent struct {
	Slot    uint64          `json:"slot"`
	Index   uint32          `json:"index"`
	Time    uint64          `json:"time"`
	TxID    ledger.Bytes32  `json:"txID"`
	Program ledger.Address  `json:"program"`
	Name    string          `json:"name"`
	User    *ledger.Address `json:"user,omitempty"`
	Amount  string          `json:"amount,omitempty"`
	Data    hexutil.Bytes   `json:"data"`
	// the decoded payload for events of the staking program
	Decoded any `json:"decoded,omitempty"`
}

// ConvertEvent converts a stored event, decoding the payload when it is emitted by programID.
func ConvertEvent(programID ledger.Address, e *logdb.Event) *JSONEvent {
	je := &JSONEvent{
		Slot:    e.Slot,
		Index:   e.Index,
		Time:    e.Time,
		TxID:    e.TxID,
		Program: e.Program,
		Name:    e.Name,
		User:    e.User,
		Data:    e.Data,
	}
	if e.Amount != nil {
		je.Amount = strconv.FormatUint(*e.Amount, 10)
	}
	if e.Program != programID {
		return je
	}
	if _, decoded, err := staking.DecodeEvent(e.Data); err == nil {
		je.Decoded = decoded
		if sc, ok := decoded.(*staking.StakeChanged); ok && je.User == nil {
			user := sc.User
			je.User = &user
			je.Amount = strconv.FormatUint(sc.Amount, 10)
		}
	}
	return je
}
