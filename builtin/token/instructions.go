// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"encoding/binary"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/tx"
)

const (
	tagCreateAssociatedAccount byte = 1
	tagTransfer                byte = 3
)

// CreateAssociatedAccountInstruction creates the associated token account of owner for mint.
//
// Accounts: account(w), owner, mint.
func CreateAssociatedAccountInstruction(owner, mint ledger.Address) *tx.Instruction {
	account, _ := AssociatedAddress(owner, mint)
	return &tx.Instruction{
		ProgramID: ProgramID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(account, false, true),
			tx.NewAccountMeta(owner, false, false),
			tx.NewAccountMeta(mint, false, false),
		},
		Data: []byte{tagCreateAssociatedAccount},
	}
}

// TransferInstruction moves amount from source to destination, authorized by the source owner.
//
// Accounts: source(w), destination(w), authority(s).
func TransferInstruction(source, destination, authority ledger.Address, amount uint64) *tx.Instruction {
	data := make([]byte, 9)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)
	return &tx.Instruction{
		ProgramID: ProgramID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(source, false, true),
			tx.NewAccountMeta(destination, false, true),
			tx.NewAccountMeta(authority, true, false),
		},
		Data: data,
	}
}
