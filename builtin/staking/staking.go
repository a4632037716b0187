// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the token custody program.
//
// Participants stake tokens of a single mint into a vault token account and may
// unstake them at any time. The aggregate of all participant balances is tracked
// in the global state record, which also carries the admin owner and the pause flag.
// The vault token account is controlled by the vault authority, an address derived
// from the mint that only this program can sign for.
package staking

import (
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/ledger"
)

var (
	SeedState     = []byte("state")
	SeedVault     = []byte("vault")
	SeedUserStake = []byte("user_stake")
)

// Config is the deployment configuration of the program.
type Config struct {
	ProgramID ledger.Address
	// the only identity allowed to initialize, which becomes the owner
	ExpectedOwner ledger.Address
}

// StateAddress returns the address of the global state record.
func StateAddress(programID ledger.Address) (ledger.Address, uint8) {
	return ledger.MustFindProgramAddress([][]byte{SeedState}, programID)
}

// VaultAuthority returns the address signing for the vault token account of mint.
func VaultAuthority(programID, mint ledger.Address) (ledger.Address, uint8) {
	return ledger.MustFindProgramAddress([][]byte{SeedVault, mint.Bytes()}, programID)
}

// VaultAccount returns the vault token account of mint.
func VaultAccount(programID, mint ledger.Address) ledger.Address {
	authority, _ := VaultAuthority(programID, mint)
	addr, _ := token.AssociatedAddress(authority, mint)
	return addr
}

// UserStakeAddress returns the address of the stake record of user.
func UserStakeAddress(programID, user ledger.Address) (ledger.Address, uint8) {
	return ledger.MustFindProgramAddress([][]byte{SeedUserStake, user.Bytes()}, programID)
}
