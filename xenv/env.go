// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/tx"
)

var (
	ErrMissingAccount      = errors.New("account not provided to instruction")
	ErrReadonlyAccount     = errors.New("account is not writable")
	ErrMissingSignature    = errors.New("missing required signature")
	ErrAccountNotOwned     = errors.New("account not owned by executing program")
	ErrPrivilegeEscalation = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrInvalidSeeds        = errors.New("address is not derived from the given seeds")
	ErrCallDepth           = errors.New("cross-program invocation depth exceeded")
)

// MaxInvokeDepth is the max nesting of cross-program invocations.
const MaxInvokeDepth = 4

// BlockContext block context.
type BlockContext struct {
	Slot uint64
	Time uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     ledger.Bytes32
	Events []*tx.Event
}

// Invoker executes a nested instruction with the given effective signers.
type Invoker func(ix *tx.Instruction, signers []ledger.Address, depth int) error

// Environment an env to execute one program instruction.
type Environment struct {
	programID ledger.Address
	ix        *tx.Instruction
	state     *state.State
	blockCtx  *BlockContext
	txCtx     *TransactionContext
	invoker   Invoker
	depth     int
}

// New create a new env.
func New(
	programID ledger.Address,
	ix *tx.Instruction,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	invoker Invoker,
	depth int,
) *Environment {
	return &Environment{
		programID: programID,
		ix:        ix,
		state:     state,
		blockCtx:  blockCtx,
		txCtx:     txCtx,
		invoker:   invoker,
		depth:     depth,
	}
}

func (env *Environment) ProgramID() ledger.Address               { return env.programID }
func (env *Environment) Data() []byte                            { return env.ix.Data }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) Depth() int                              { return env.depth }

// NumAccounts returns the count of accounts passed to the instruction.
func (env *Environment) NumAccounts() int {
	return len(env.ix.Accounts)
}

// Account returns the i-th account meta.
func (env *Environment) Account(i int) (tx.AccountMeta, error) {
	if i < 0 || i >= len(env.ix.Accounts) {
		return tx.AccountMeta{}, errors.Wrapf(ErrMissingAccount, "index %d", i)
	}
	return env.ix.Accounts[i], nil
}

func (env *Environment) meta(addr ledger.Address) (tx.AccountMeta, bool) {
	var (
		merged tx.AccountMeta
		found  bool
	)
	for _, m := range env.ix.Accounts {
		if m.Address == addr {
			merged.Address = addr
			merged.Signer = merged.Signer || m.Signer
			merged.Writable = merged.Writable || m.Writable
			found = true
		}
	}
	return merged, found
}

// IsSigner returns whether addr signed the instruction.
func (env *Environment) IsSigner(addr ledger.Address) bool {
	m, _ := env.meta(addr)
	return m.Signer
}

// IsWritable returns whether addr may be changed by the instruction.
func (env *Environment) IsWritable(addr ledger.Address) bool {
	m, _ := env.meta(addr)
	return m.Writable
}

// Load returns the record at addr, nil if absent.
// Only accounts passed to the instruction are readable.
func (env *Environment) Load(addr ledger.Address) (*state.Account, error) {
	if _, ok := env.meta(addr); !ok {
		return nil, errors.Wrapf(ErrMissingAccount, "account %v", addr)
	}
	return env.state.GetAccount(addr)
}

// Store replaces the data of a record owned by the executing program.
func (env *Environment) Store(addr ledger.Address, data []byte) error {
	m, ok := env.meta(addr)
	if !ok {
		return errors.Wrapf(ErrMissingAccount, "account %v", addr)
	}
	if !m.Writable {
		return errors.Wrapf(ErrReadonlyAccount, "account %v", addr)
	}
	acc, err := env.state.GetAccount(addr)
	if err != nil {
		return err
	}
	if acc == nil {
		return errors.Wrapf(state.ErrAccountNotFound, "account %v", addr)
	}
	if acc.Owner != env.programID {
		return errors.Wrapf(ErrAccountNotOwned, "account %v", addr)
	}
	return env.state.SetData(addr, data)
}

// CreateAccount allocates a zero filled record owned by the executing program.
// The address must derive from seeds under the executing program.
func (env *Environment) CreateAccount(addr ledger.Address, space int, seeds ...[]byte) error {
	m, ok := env.meta(addr)
	if !ok {
		return errors.Wrapf(ErrMissingAccount, "account %v", addr)
	}
	if !m.Writable {
		return errors.Wrapf(ErrReadonlyAccount, "account %v", addr)
	}
	derived, err := ledger.CreateProgramAddress(seeds, env.programID)
	if err != nil {
		return err
	}
	if derived != addr {
		return errors.Wrapf(ErrInvalidSeeds, "account %v", addr)
	}
	if err := env.state.CreateAccount(addr, env.programID, space); err != nil {
		return errors.Wrapf(err, "account %v", addr)
	}
	return nil
}

// Emit records an event of the executing program.
func (env *Environment) Emit(name string, data []byte) {
	env.txCtx.Events = append(env.txCtx.Events, &tx.Event{
		Program: env.programID,
		Name:    name,
		Data:    slices.Clone(data),
	})
}

// Invoke executes ix in another program.
// Each seed set signs for the address it derives under the executing program.
func (env *Environment) Invoke(ix *tx.Instruction, signerSeeds ...[][]byte) error {
	if env.depth+1 > MaxInvokeDepth {
		return ErrCallDepth
	}

	pdaSigners := make([]ledger.Address, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := ledger.CreateProgramAddress(seeds, env.programID)
		if err != nil {
			return err
		}
		pdaSigners = append(pdaSigners, addr)
	}

	var signers []ledger.Address
	for _, callee := range ix.Accounts {
		caller, ok := env.meta(callee.Address)
		if !ok {
			return errors.Wrapf(ErrMissingAccount, "account %v", callee.Address)
		}
		if callee.Writable && !caller.Writable {
			return errors.Wrapf(ErrPrivilegeEscalation, "writable %v", callee.Address)
		}
		if callee.Signer {
			if !caller.Signer && !slices.Contains(pdaSigners, callee.Address) {
				return errors.Wrapf(ErrPrivilegeEscalation, "signer %v", callee.Address)
			}
			if !slices.Contains(signers, callee.Address) {
				signers = append(signers, callee.Address)
			}
		}
	}
	return env.invoker(ix.Copy(), signers, env.depth+1)
}
