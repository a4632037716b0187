// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"bytes"
	"slices"

	"github.com/stakevault/stakevault/ledger"
)

// AccountMeta references an account used by an instruction.
type AccountMeta struct {
	Address  ledger.Address
	Signer   bool
	Writable bool
}

// NewAccountMeta creates an account meta.
func NewAccountMeta(addr ledger.Address, signer, writable bool) AccountMeta {
	return AccountMeta{Address: addr, Signer: signer, Writable: writable}
}

// Instruction invokes one program with an ordered list of accounts and opaque data.
type Instruction struct {
	ProgramID ledger.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Copy returns a deep copy.
func (ix *Instruction) Copy() *Instruction {
	return &Instruction{
		ProgramID: ix.ProgramID,
		Accounts:  slices.Clone(ix.Accounts),
		Data:      bytes.Clone(ix.Data),
	}
}
