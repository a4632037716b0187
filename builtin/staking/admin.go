// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/xenv"
)

// authorizeAdmin loads the global state and checks the signer is its owner.
func (p *Program) authorizeAdmin(env *xenv.Environment) (ledger.Address, *GlobalState, error) {
	addrs, err := requireAccounts(env, 2)
	if err != nil {
		return ledger.Address{}, nil, err
	}
	stateAddr, admin := addrs[0], addrs[1]

	if err := requireSigner(env, admin); err != nil {
		return ledger.Address{}, nil, err
	}
	if err := requireWritable(env, stateAddr); err != nil {
		return ledger.Address{}, nil, err
	}
	gs, err := p.loadState(env, stateAddr)
	if err != nil {
		return ledger.Address{}, nil, err
	}
	if gs.Owner != admin {
		return ledger.Address{}, nil, ErrUnauthorized
	}
	return stateAddr, gs, nil
}

func (p *Program) setPaused(env *xenv.Environment, paused bool) error {
	stateAddr, gs, err := p.authorizeAdmin(env)
	if err != nil {
		return err
	}
	if paused && gs.Paused {
		return ErrAlreadyPaused
	}
	if !paused && !gs.Paused {
		return ErrNotPaused
	}
	gs.Paused = paused
	if err := env.Store(stateAddr, gs.Encode()); err != nil {
		return err
	}

	name := EventUnpaused
	if paused {
		name = EventPaused
	}
	ts, slot := blockStamp(env)
	env.Emit(name, (&PauseChanged{Timestamp: ts, Slot: slot}).encode(name))

	logger.Info("pause flag changed", "paused", paused)
	return nil
}

func (p *Program) pause(env *xenv.Environment) error   { return p.setPaused(env, true) }
func (p *Program) unpause(env *xenv.Environment) error { return p.setPaused(env, false) }
