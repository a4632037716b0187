// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	Slot    uint64
	Index   uint32
	Time    uint64
	TxID    ledger.Bytes32
	Program ledger.Address
	Name    string
	// the participant the event is about, if any
	User *ledger.Address
	// the moved amount, if any
	Amount *uint64
	Data   []byte
}

// NewEvent converts the index-th event of a receipt.
func NewEvent(receipt *tx.Receipt, index uint32, ev *tx.Event) *Event {
	return &Event{
		Slot:    receipt.Slot,
		Index:   index,
		Time:    receipt.Time,
		TxID:    receipt.TxID,
		Program: ev.Program,
		Name:    ev.Name,
		Data:    ev.Data,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive slot range. To is ignored when less than From.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Empty criteria match everything.
type EventFilter struct {
	Program *ledger.Address
	Names   []string
	User    *ledger.Address
	Range   *Range
	Options *Options
	Order   Order // default asc
}
