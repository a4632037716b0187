// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token program: mints, token accounts and transfers.
package token

import (
	"encoding/binary"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
)

// ProgramID is the address of the token program.
var ProgramID = ledger.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

const (
	MintSize    = 32 + 8 + 1 + 1
	AccountSize = 32 + 32 + 8
)

// Mint describes a token.
type Mint struct {
	Authority   ledger.Address
	Supply      uint64
	Decimals    uint8
	Initialized bool
}

// Account holds the balance of one owner in one mint.
type Account struct {
	Mint   ledger.Address
	Owner  ledger.Address
	Amount uint64
}

func (m *Mint) encode() []byte {
	b := make([]byte, MintSize)
	copy(b[0:32], m.Authority[:])
	binary.LittleEndian.PutUint64(b[32:40], m.Supply)
	b[40] = m.Decimals
	if m.Initialized {
		b[41] = 1
	}
	return b
}

func decodeMint(b []byte) (*Mint, error) {
	if len(b) != MintSize || b[41] != 1 {
		return nil, ErrInvalidMint
	}
	m := &Mint{
		Supply:      binary.LittleEndian.Uint64(b[32:40]),
		Decimals:    b[40],
		Initialized: true,
	}
	copy(m.Authority[:], b[0:32])
	return m, nil
}

func (a *Account) encode() []byte {
	b := make([]byte, AccountSize)
	copy(b[0:32], a.Mint[:])
	copy(b[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(b[64:72], a.Amount)
	return b
}

func decodeAccount(b []byte) (*Account, error) {
	if len(b) != AccountSize {
		return nil, ErrInvalidAccount
	}
	a := &Account{Amount: binary.LittleEndian.Uint64(b[64:72])}
	copy(a.Mint[:], b[0:32])
	copy(a.Owner[:], b[32:64])
	return a, nil
}

// ParseMint decodes a record as a mint. The record must be owned by the token program.
func ParseMint(rec *state.Account) (*Mint, error) {
	if rec == nil || rec.Owner != ProgramID {
		return nil, ErrInvalidMint
	}
	return decodeMint(rec.Data)
}

// ParseAccount decodes a record as a token account. The record must be owned by the token program.
func ParseAccount(rec *state.Account) (*Account, error) {
	if rec == nil || rec.Owner != ProgramID {
		return nil, ErrInvalidAccount
	}
	return decodeAccount(rec.Data)
}

// AssociatedAddress returns the canonical token account of owner for mint.
func AssociatedAddress(owner, mint ledger.Address) (ledger.Address, uint8) {
	return ledger.MustFindProgramAddress([][]byte{owner.Bytes(), mint.Bytes()}, ProgramID)
}

// Reader reads token records from a state.
type Reader struct {
	state *state.State
}

// NewReader creates a reader.
func NewReader(st *state.State) *Reader {
	return &Reader{st}
}

// Mint returns the mint at addr.
func (r *Reader) Mint(addr ledger.Address) (*Mint, error) {
	rec, err := r.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return ParseMint(rec)
}

// Account returns the token account at addr.
func (r *Reader) Account(addr ledger.Address) (*Account, error) {
	rec, err := r.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return ParseAccount(rec)
}
