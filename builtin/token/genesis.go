// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/bits"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
)

// Seeder writes token records directly into a state, bypassing instructions.
// It is used to build the genesis state.
type Seeder struct {
	state *state.State
}

// NewSeeder creates a seeder.
func NewSeeder(st *state.State) *Seeder {
	return &Seeder{st}
}

func (s *Seeder) put(addr ledger.Address, size int, data []byte) error {
	if err := s.state.CreateAccount(addr, ProgramID, size); err != nil {
		return err
	}
	return s.state.SetData(addr, data)
}

// Mint creates a mint with zero supply.
func (s *Seeder) Mint(addr, authority ledger.Address, decimals uint8) error {
	return s.put(addr, MintSize, (&Mint{Authority: authority, Decimals: decimals, Initialized: true}).encode())
}

// Fund creates the associated account of owner holding amount, and adds amount to the mint supply.
func (s *Seeder) Fund(owner, mint ledger.Address, amount uint64) (ledger.Address, error) {
	rec, err := s.state.GetAccount(mint)
	if err != nil {
		return ledger.Address{}, err
	}
	m, err := ParseMint(rec)
	if err != nil {
		return ledger.Address{}, err
	}
	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return ledger.Address{}, ErrOverflow
	}
	m.Supply = supply
	if err := s.state.SetData(mint, m.encode()); err != nil {
		return ledger.Address{}, err
	}

	addr, _ := AssociatedAddress(owner, mint)
	return addr, s.put(addr, AccountSize, (&Account{Mint: mint, Owner: owner, Amount: amount}).encode())
}

// Account creates a token account at an arbitrary address.
func (s *Seeder) Account(addr ledger.Address, acc *Account) error {
	return s.put(addr, AccountSize, acc.encode())
}
