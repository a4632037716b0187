// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/xenv"
)

// initialize creates the global state and the vault token account.
// Only the expected owner may initialize, and becomes the owner.
func (p *Program) initialize(env *xenv.Environment) error {
	addrs, err := requireAccounts(env, 6)
	if err != nil {
		return err
	}
	a := InitializeAccounts{
		State:             addrs[0],
		TokenMint:         addrs[1],
		VaultTokenAccount: addrs[2],
		VaultAuthority:    addrs[3],
		Payer:             addrs[4],
		TokenProgram:      addrs[5],
	}

	if err := requireSigner(env, a.Payer); err != nil {
		return err
	}
	if a.Payer != p.cfg.ExpectedOwner {
		return ErrUnauthorized
	}
	if err := requireWritable(env, a.State, a.VaultTokenAccount); err != nil {
		return err
	}
	if err := requireTokenProgram(a.TokenProgram); err != nil {
		return err
	}

	stateAddr, stateBump := StateAddress(p.ID())
	if a.State != stateAddr {
		return ErrUnauthorized
	}
	mintRec, err := env.Load(a.TokenMint)
	if err != nil {
		return err
	}
	if _, err := token.ParseMint(mintRec); err != nil {
		return ErrInvalidTokenMint
	}
	authority, _ := VaultAuthority(p.ID(), a.TokenMint)
	if a.VaultAuthority != authority {
		return ErrUnauthorized
	}
	vaultAccount, _ := token.AssociatedAddress(authority, a.TokenMint)
	if a.VaultTokenAccount != vaultAccount {
		return ErrInvalidTokenAccount
	}

	if err := env.CreateAccount(a.State, GlobalStateSize, SeedState, []byte{stateBump}); err != nil {
		return err
	}
	if err := env.Invoke(token.CreateAssociatedAccountInstruction(authority, a.TokenMint)); err != nil {
		return err
	}

	gs := &GlobalState{
		TokenMint:    a.TokenMint,
		Owner:        a.Payer,
		VaultAccount: vaultAccount,
		Bump:         stateBump,
	}
	if err := env.Store(a.State, gs.Encode()); err != nil {
		return err
	}

	ts, slot := blockStamp(env)
	env.Emit(EventInitialized, (&Initialized{
		Owner:          gs.Owner,
		TokenMint:      gs.TokenMint,
		VaultAuthority: authority,
		VaultAccount:   vaultAccount,
		Timestamp:      ts,
		Slot:           slot,
	}).encode())

	logger.Info("staking initialized", "mint", gs.TokenMint, "owner", gs.Owner, "vault", vaultAccount)
	return nil
}
