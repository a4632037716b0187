// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/bits"

	"github.com/stakevault/stakevault/xenv"
)

// unstake debits the user stake record and moves amount from the vault
// back to the user token account, signed by the vault authority.
// It never consults the pause flag.
func (p *Program) unstake(env *xenv.Environment, amount uint64) error {
	addrs, err := requireAccounts(env, 7)
	if err != nil {
		return err
	}
	a := StakeAccounts{
		State:             addrs[0],
		UserStake:         addrs[1],
		User:              addrs[2],
		UserTokenAccount:  addrs[3],
		VaultTokenAccount: addrs[4],
		VaultAuthority:    addrs[5],
		TokenProgram:      addrs[6],
	}

	if err := requireSigner(env, a.User); err != nil {
		return err
	}
	if err := requireWritable(env, a.State, a.UserStake, a.UserTokenAccount, a.VaultTokenAccount); err != nil {
		return err
	}
	gs, err := p.loadState(env, a.State)
	if err != nil {
		return err
	}

	rec, err := env.Load(a.UserStake)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrAccountNotInitialized
	}
	if rec.Owner != p.ID() {
		return ErrAccountOwnedByWrongProgram
	}
	us, err := DecodeUserStake(rec.Data)
	if err != nil {
		return err
	}
	if us.Owner != a.User {
		return ErrInvalidUser
	}
	stakeAddr, stakeBump := UserStakeAddress(p.ID(), a.User)
	if a.UserStake != stakeAddr || us.Bump != stakeBump {
		return ErrUnauthorized
	}

	if err := checkUserTokenAccount(env, gs, a.UserTokenAccount, a.User); err != nil {
		return err
	}
	vaultBump, err := p.checkVault(env, gs, a.VaultAuthority, a.VaultTokenAccount)
	if err != nil {
		return err
	}
	if err := requireTokenProgram(a.TokenProgram); err != nil {
		return err
	}

	if amount == 0 {
		return ErrZeroAmount
	}
	if us.Balance < amount {
		return ErrInsufficientBalance
	}

	before := us.Balance
	balance, borrow := bits.Sub64(us.Balance, amount, 0)
	if borrow != 0 {
		return ErrUnderflow
	}
	total, borrow := bits.Sub64(gs.TotalStaked, amount, 0)
	if borrow != 0 {
		return ErrUnderflow
	}
	us.Balance = balance
	gs.TotalStaked = total

	if err := env.Store(a.UserStake, us.Encode()); err != nil {
		return err
	}
	if err := env.Store(a.State, gs.Encode()); err != nil {
		return err
	}
	vaultSeeds := [][]byte{SeedVault, gs.TokenMint.Bytes(), {vaultBump}}
	if err := invokeTransfer(env, a.VaultTokenAccount, a.UserTokenAccount, a.VaultAuthority, amount, vaultSeeds); err != nil {
		return err
	}

	ts, slot := blockStamp(env)
	env.Emit(EventUnstaked, (&StakeChanged{
		User:             a.User,
		Amount:           amount,
		BalanceBefore:    before,
		BalanceAfter:     us.Balance,
		TotalStakedAfter: gs.TotalStaked,
		Timestamp:        ts,
		Slot:             slot,
	}).encode(EventUnstaked))

	logger.Debug("unstaked", "user", a.User, "amount", amount, "balance", us.Balance, "total", gs.TotalStaked)
	return nil
}
