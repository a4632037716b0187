// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/bits"

	"github.com/stakevault/stakevault/xenv"
)

// stake moves amount from the user token account into the vault
// and credits the user stake record, creating it on first stake.
func (p *Program) stake(env *xenv.Environment, amount uint64) error {
	addrs, err := requireAccounts(env, 7)
	if err != nil {
		return err
	}
	a := StakeAccounts{
		State:             addrs[0],
		UserStake:         addrs[1],
		User:              addrs[2],
		UserTokenAccount:  addrs[3],
		VaultAuthority:    addrs[4],
		VaultTokenAccount: addrs[5],
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
	stakeAddr, stakeBump := UserStakeAddress(p.ID(), a.User)
	if a.UserStake != stakeAddr {
		return ErrUnauthorized
	}
	if err := checkUserTokenAccount(env, gs, a.UserTokenAccount, a.User); err != nil {
		return err
	}
	if _, err := p.checkVault(env, gs, a.VaultAuthority, a.VaultTokenAccount); err != nil {
		return err
	}
	if err := requireTokenProgram(a.TokenProgram); err != nil {
		return err
	}

	if amount == 0 {
		return ErrZeroAmount
	}
	if gs.Paused {
		return ErrContractPaused
	}

	rec, err := env.Load(a.UserStake)
	if err != nil {
		return err
	}
	var us *UserStake
	if rec == nil {
		if err := env.CreateAccount(a.UserStake, UserStakeSize, SeedUserStake, a.User.Bytes(), []byte{stakeBump}); err != nil {
			return err
		}
		us = &UserStake{Owner: a.User, Bump: stakeBump}
	} else {
		if rec.Owner != p.ID() {
			return ErrAccountOwnedByWrongProgram
		}
		if us, err = DecodeUserStake(rec.Data); err != nil {
			return err
		}
		if us.Owner != a.User {
			return ErrInvalidUser
		}
	}

	before := us.Balance
	balance, carry := bits.Add64(us.Balance, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	total, carry := bits.Add64(gs.TotalStaked, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	us.Balance = balance
	gs.TotalStaked = total

	if err := env.Store(a.UserStake, us.Encode()); err != nil {
		return err
	}
	if err := env.Store(a.State, gs.Encode()); err != nil {
		return err
	}
	if err := invokeTransfer(env, a.UserTokenAccount, a.VaultTokenAccount, a.User, amount); err != nil {
		return err
	}

	ts, slot := blockStamp(env)
	env.Emit(EventStaked, (&StakeChanged{
		User:             a.User,
		Amount:           amount,
		BalanceBefore:    before,
		BalanceAfter:     us.Balance,
		TotalStakedAfter: gs.TotalStaked,
		Timestamp:        ts,
		Slot:             slot,
	}).encode(EventStaked))

	logger.Debug("staked", "user", a.User, "amount", amount, "balance", us.Balance, "total", gs.TotalStaked)
	return nil
}
