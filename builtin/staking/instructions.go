// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/tx"
)

var (
	selectorInitialize = discriminator("global", "initialize")
	selectorStake      = discriminator("global", "stake")
	selectorUnstake    = discriminator("global", "unstake")
	selectorPause      = discriminator("global", "pause")
	selectorUnpause    = discriminator("global", "unpause")
)

func instructionData(selector [discriminatorSize]byte, amount *uint64) []byte {
	data := append([]byte(nil), selector[:]...)
	if amount != nil {
		data = binary.LittleEndian.AppendUint64(data, *amount)
	}
	return data
}

// InitializeAccounts lists the accounts of Initialize.
type InitializeAccounts struct {
	State             ledger.Address
	TokenMint         ledger.Address
	VaultTokenAccount ledger.Address
	VaultAuthority    ledger.Address
	Payer             ledger.Address
	TokenProgram      ledger.Address
}

// NewInitializeAccounts derives the canonical accounts of Initialize.
func NewInitializeAccounts(programID, payer, mint ledger.Address) *InitializeAccounts {
	stateAddr, _ := StateAddress(programID)
	authority, _ := VaultAuthority(programID, mint)
	return &InitializeAccounts{
		State:             stateAddr,
		TokenMint:         mint,
		VaultTokenAccount: VaultAccount(programID, mint),
		VaultAuthority:    authority,
		Payer:             payer,
		TokenProgram:      token.ProgramID,
	}
}

// Instruction builds the Initialize instruction.
func (a *InitializeAccounts) Instruction(programID ledger.Address) *tx.Instruction {
	return &tx.Instruction{
		ProgramID: programID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(a.State, false, true),
			tx.NewAccountMeta(a.TokenMint, false, false),
			tx.NewAccountMeta(a.VaultTokenAccount, false, true),
			tx.NewAccountMeta(a.VaultAuthority, false, false),
			tx.NewAccountMeta(a.Payer, true, true),
			tx.NewAccountMeta(a.TokenProgram, false, false),
		},
		Data: instructionData(selectorInitialize, nil),
	}
}

// StakeAccounts lists the accounts of Stake and Unstake.
type StakeAccounts struct {
	State             ledger.Address
	UserStake         ledger.Address
	User              ledger.Address
	UserTokenAccount  ledger.Address
	VaultAuthority    ledger.Address
	VaultTokenAccount ledger.Address
	TokenProgram      ledger.Address
}

// NewStakeAccounts derives the canonical accounts of Stake and Unstake.
// The user token account is the associated token account of user.
func NewStakeAccounts(programID, user, mint ledger.Address) *StakeAccounts {
	stateAddr, _ := StateAddress(programID)
	userStake, _ := UserStakeAddress(programID, user)
	userToken, _ := token.AssociatedAddress(user, mint)
	authority, _ := VaultAuthority(programID, mint)
	return &StakeAccounts{
		State:             stateAddr,
		UserStake:         userStake,
		User:              user,
		UserTokenAccount:  userToken,
		VaultAuthority:    authority,
		VaultTokenAccount: VaultAccount(programID, mint),
		TokenProgram:      token.ProgramID,
	}
}

// StakeInstruction builds the Stake instruction.
func (a *StakeAccounts) StakeInstruction(programID ledger.Address, amount uint64) *tx.Instruction {
	return &tx.Instruction{
		ProgramID: programID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(a.State, false, true),
			tx.NewAccountMeta(a.UserStake, false, true),
			tx.NewAccountMeta(a.User, true, true),
			tx.NewAccountMeta(a.UserTokenAccount, false, true),
			tx.NewAccountMeta(a.VaultAuthority, false, false),
			tx.NewAccountMeta(a.VaultTokenAccount, false, true),
			tx.NewAccountMeta(a.TokenProgram, false, false),
		},
		Data: instructionData(selectorStake, &amount),
	}
}

// UnstakeInstruction builds the Unstake instruction.
func (a *StakeAccounts) UnstakeInstruction(programID ledger.Address, amount uint64) *tx.Instruction {
	return &tx.Instruction{
		ProgramID: programID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(a.State, false, true),
			tx.NewAccountMeta(a.UserStake, false, true),
			tx.NewAccountMeta(a.User, true, true),
			tx.NewAccountMeta(a.UserTokenAccount, false, true),
			tx.NewAccountMeta(a.VaultTokenAccount, false, true),
			tx.NewAccountMeta(a.VaultAuthority, false, false),
			tx.NewAccountMeta(a.TokenProgram, false, false),
		},
		Data: instructionData(selectorUnstake, &amount),
	}
}

func adminInstruction(programID, admin ledger.Address, selector [discriminatorSize]byte) *tx.Instruction {
	stateAddr, _ := StateAddress(programID)
	return &tx.Instruction{
		ProgramID: programID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(stateAddr, false, true),
			tx.NewAccountMeta(admin, true, false),
		},
		Data: instructionData(selector, nil),
	}
}

// PauseInstruction builds the Pause instruction.
func PauseInstruction(programID, admin ledger.Address) *tx.Instruction {
	return adminInstruction(programID, admin, selectorPause)
}

// UnpauseInstruction builds the Unpause instruction.
func UnpauseInstruction(programID, admin ledger.Address) *tx.Instruction {
	return adminInstruction(programID, admin, selectorUnpause)
}
