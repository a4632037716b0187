// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"encoding/binary"
	"math/bits"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/xenv"
)

var logger = log.WithContext("pkg", "token")

// Program is the token program.
type Program struct{}

// New creates the token program.
func New() *Program {
	return &Program{}
}

func (p *Program) ID() ledger.Address { return ProgramID }

// Execute dispatches an instruction by its leading tag.
func (p *Program) Execute(env *xenv.Environment) error {
	data := env.Data()
	if len(data) == 0 {
		return ErrInvalidInstruction
	}
	switch data[0] {
	case tagCreateAssociatedAccount:
		return p.createAssociatedAccount(env)
	case tagTransfer:
		if len(data) != 9 {
			return ErrInvalidInstruction
		}
		return p.transfer(env, binary.LittleEndian.Uint64(data[1:]))
	default:
		return ErrInvalidInstruction
	}
}

func accounts(env *xenv.Environment, n int) ([]ledger.Address, error) {
	addrs := make([]ledger.Address, n)
	for i := range addrs {
		meta, err := env.Account(i)
		if err != nil {
			return nil, err
		}
		addrs[i] = meta.Address
	}
	return addrs, nil
}

func (p *Program) createAssociatedAccount(env *xenv.Environment) error {
	addrs, err := accounts(env, 3)
	if err != nil {
		return err
	}
	account, owner, mint := addrs[0], addrs[1], addrs[2]

	mintRec, err := env.Load(mint)
	if err != nil {
		return err
	}
	if _, err := ParseMint(mintRec); err != nil {
		return err
	}

	expected, bump := AssociatedAddress(owner, mint)
	if expected != account {
		return ErrInvalidAccount
	}
	if err := env.CreateAccount(account, AccountSize, owner.Bytes(), mint.Bytes(), []byte{bump}); err != nil {
		return err
	}
	logger.Debug("associated account created", "account", account, "owner", owner, "mint", mint)
	return env.Store(account, (&Account{Mint: mint, Owner: owner}).encode())
}

func (p *Program) loadAccount(env *xenv.Environment, addr ledger.Address) (*Account, error) {
	rec, err := env.Load(addr)
	if err != nil {
		return nil, err
	}
	return ParseAccount(rec)
}

func (p *Program) transfer(env *xenv.Environment, amount uint64) error {
	addrs, err := accounts(env, 3)
	if err != nil {
		return err
	}
	srcAddr, dstAddr, authority := addrs[0], addrs[1], addrs[2]

	src, err := p.loadAccount(env, srcAddr)
	if err != nil {
		return err
	}
	dst, err := p.loadAccount(env, dstAddr)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if !env.IsSigner(authority) {
		return ErrMissingSignature
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	if srcAddr == dstAddr {
		return nil
	}

	credited, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	src.Amount -= amount
	dst.Amount = credited

	if err := env.Store(srcAddr, src.encode()); err != nil {
		return err
	}
	if err := env.Store(dstAddr, dst.encode()); err != nil {
		return err
	}
	logger.Trace("transferred", "from", srcAddr, "to", dstAddr, "amount", amount)
	return nil
}
