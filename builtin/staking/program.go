// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/xenv"
)

var logger = log.WithContext("pkg", "staking")

// Program is the staking program.
type Program struct {
	cfg Config
}

// New creates the staking program.
func New(cfg Config) *Program {
	return &Program{cfg: cfg}
}

func (p *Program) ID() ledger.Address { return p.cfg.ProgramID }

// Execute dispatches an instruction by its 8 byte selector.
func (p *Program) Execute(env *xenv.Environment) error {
	data := env.Data()
	if len(data) < discriminatorSize {
		return ErrInstructionMissing
	}
	var selector [discriminatorSize]byte
	copy(selector[:], data)
	args := data[discriminatorSize:]

	switch selector {
	case selectorInitialize:
		if len(args) != 0 {
			return ErrInstructionDidNotDeserialize
		}
		return p.initialize(env)
	case selectorStake:
		amount, err := decodeAmount(args)
		if err != nil {
			return err
		}
		return p.stake(env, amount)
	case selectorUnstake:
		amount, err := decodeAmount(args)
		if err != nil {
			return err
		}
		return p.unstake(env, amount)
	case selectorPause:
		if len(args) != 0 {
			return ErrInstructionDidNotDeserialize
		}
		return p.pause(env)
	case selectorUnpause:
		if len(args) != 0 {
			return ErrInstructionDidNotDeserialize
		}
		return p.unpause(env)
	default:
		return ErrInstructionFallbackNotFound
	}
}

func decodeAmount(args []byte) (uint64, error) {
	if len(args) != 8 {
		return 0, ErrInstructionDidNotDeserialize
	}
	return binary.LittleEndian.Uint64(args), nil
}

func requireAccounts(env *xenv.Environment, n int) ([]ledger.Address, error) {
	if env.NumAccounts() < n {
		return nil, ErrAccountNotEnoughKeys
	}
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

func requireSigner(env *xenv.Environment, addr ledger.Address) error {
	if !env.IsSigner(addr) {
		return ErrAccountNotSigner
	}
	return nil
}

func requireWritable(env *xenv.Environment, addrs ...ledger.Address) error {
	for _, addr := range addrs {
		if !env.IsWritable(addr) {
			return ErrAccountNotMutable
		}
	}
	return nil
}

func requireTokenProgram(addr ledger.Address) error {
	if addr != token.ProgramID {
		return ErrInvalidProgramID
	}
	return nil
}

// loadState re-derives the global state address and loads the record.
func (p *Program) loadState(env *xenv.Environment, addr ledger.Address) (*GlobalState, error) {
	expected, bump := StateAddress(p.ID())
	if addr != expected {
		return nil, ErrUnauthorized
	}
	rec, err := env.Load(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrAccountNotInitialized
	}
	if rec.Owner != p.ID() {
		return nil, ErrAccountOwnedByWrongProgram
	}
	gs, err := DecodeGlobalState(rec.Data)
	if err != nil {
		return nil, err
	}
	if gs.Bump != bump {
		return nil, ErrUnauthorized
	}
	return gs, nil
}

func loadTokenAccount(env *xenv.Environment, addr ledger.Address) (*token.Account, error) {
	rec, err := env.Load(addr)
	if err != nil {
		return nil, err
	}
	acc, err := token.ParseAccount(rec)
	if err != nil {
		return nil, ErrInvalidTokenAccount
	}
	return acc, nil
}

// checkUserTokenAccount validates the token account the user stakes from or unstakes to.
func checkUserTokenAccount(env *xenv.Environment, gs *GlobalState, addr, user ledger.Address) error {
	acc, err := loadTokenAccount(env, addr)
	if err != nil {
		return err
	}
	if acc.Mint != gs.TokenMint {
		return ErrInvalidTokenMint
	}
	if acc.Owner != user {
		return ErrInvalidTokenAccount
	}
	return nil
}

// checkVault validates the vault authority and the cached vault token account.
// It returns the canonical bump of the vault authority.
func (p *Program) checkVault(env *xenv.Environment, gs *GlobalState, authority, vaultAccount ledger.Address) (uint8, error) {
	expected, bump := VaultAuthority(p.ID(), gs.TokenMint)
	if authority != expected {
		return 0, ErrUnauthorized
	}
	if vaultAccount != gs.VaultAccount {
		return 0, ErrInvalidTokenAccount
	}
	vault, err := loadTokenAccount(env, vaultAccount)
	if err != nil {
		return 0, err
	}
	if vault.Mint != gs.TokenMint {
		return 0, ErrInvalidTokenMint
	}
	if vault.Owner != authority {
		return 0, ErrInvalidTokenAccount
	}
	return bump, nil
}

func blockStamp(env *xenv.Environment) (int64, uint64) {
	ctx := env.BlockContext()
	return int64(ctx.Time), ctx.Slot
}

// invokeTransfer asks the token program to move amount.
func invokeTransfer(env *xenv.Environment, from, to, authority ledger.Address, amount uint64, signerSeeds ...[][]byte) error {
	return env.Invoke(token.TransferInstruction(from, to, authority, amount), signerSeeds...)
}
