// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/stakevault/stakevault/ledger"
)

// JSONState is the global state with its derived addresses.
type JSONState struct {
	Network        string         `json:"network"`
	ProgramID      ledger.Address `json:"programId"`
	Initialized    bool           `json:"initialized"`
	StateAccount   ledger.Address `json:"stateAccount"`
	TokenMint      ledger.Address `json:"tokenMint"`
	TokenDecimals  uint8          `json:"tokenDecimals"`
	Owner          ledger.Address `json:"owner"`
	VaultAuthority ledger.Address `json:"vaultAuthority"`
	VaultAccount   ledger.Address `json:"vaultAccount"`
	VaultBalance   uint64         `json:"vaultBalance,string"`
	TotalStaked    uint64         `json:"totalStaked,string"`
	Paused         bool           `json:"paused"`
}

// JSONStake is the stake of a participant. Balance is zero when the record does not exist.
type JSONStake struct {
	User         ledger.Address `json:"user"`
	StakeAccount ledger.Address `json:"stakeAccount"`
	Exists       bool           `json:"exists"`
	Balance      uint64         `json:"balance,string"`
	Formatted    string         `json:"formatted"`
}
