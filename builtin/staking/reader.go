// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
)

// Reader reads program records from a state.
type Reader struct {
	programID ledger.Address
	state     *state.State
}

// NewReader creates a reader.
func NewReader(programID ledger.Address, st *state.State) *Reader {
	return &Reader{programID, st}
}

func (r *Reader) load(addr ledger.Address) ([]byte, error) {
	rec, err := r.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Owner != r.programID {
		return nil, nil
	}
	return rec.Data, nil
}

// State returns the global state, nil before initialization.
func (r *Reader) State() (*GlobalState, error) {
	addr, _ := StateAddress(r.programID)
	data, err := r.load(addr)
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeGlobalState(data)
}

// Stake returns the stake record of user, nil if the user never staked.
func (r *Reader) Stake(user ledger.Address) (*UserStake, error) {
	addr, _ := UserStakeAddress(r.programID, user)
	data, err := r.load(addr)
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeUserStake(data)
}
