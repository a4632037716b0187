// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/stakevault/stakevault/ledger"

// Event is a structured record emitted by a program.
// Data is the selector prefixed payload.
type Event struct {
	Program ledger.Address
	Name    string
	Data    []byte
}

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID     ledger.Bytes32
	Slot     uint64
	Time     uint64
	Reverted bool
	// index of the failed instruction, valid when Reverted
	FailedIndex uint32
	Error       string
	Events      []*Event
}
