// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/tx"
	"github.com/stakevault/stakevault/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	ErrUnknownProgram = errors.New("unknown program")
)

// Program is natively implemented on-ledger logic.
type Program interface {
	ID() ledger.Address
	Execute(env *xenv.Environment) error
}

// InstructionError is the failure of one top level instruction.
type InstructionError struct {
	Index uint32
	Cause error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d: %v", e.Index, e.Cause)
}

func (e *InstructionError) Unwrap() error {
	return e.Cause
}

// Output is the result of a transaction execution.
type Output struct {
	Receipt *tx.Receipt
	// non-nil when the transaction reverted
	Err *InstructionError
}

// Runtime is to support transaction execution.
type Runtime struct {
	state    *state.State
	blockCtx *xenv.BlockContext
	programs map[ledger.Address]Program
}

// New create a Runtime object.
func New(state *state.State, blockCtx *xenv.BlockContext, programs ...Program) *Runtime {
	rt := &Runtime{
		state:    state,
		blockCtx: blockCtx,
		programs: make(map[ledger.Address]Program, len(programs)),
	}
	for _, p := range programs {
		rt.programs[p.ID()] = p
	}
	return rt
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return rt.blockCtx }

// ExecuteTransaction executes all instructions of trx atomically.
// An error is returned only when trx is rejected before execution.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (*Output, error) {
	if err := trx.Verify(); err != nil {
		return nil, err
	}

	txCtx := &xenv.TransactionContext{ID: trx.ID()}
	receipt := &tx.Receipt{
		TxID: txCtx.ID,
		Slot: rt.blockCtx.Slot,
		Time: rt.blockCtx.Time,
	}

	checkpoint := rt.state.NewCheckpoint()
	signers := trx.Signers()
	for i, ix := range trx.Instructions() {
		if err := rt.invoke(ix, signers, txCtx, 0); err != nil {
			rt.state.RevertTo(checkpoint)

			ixErr := &InstructionError{Index: uint32(i), Cause: err}
			receipt.Reverted = true
			receipt.FailedIndex = ixErr.Index
			receipt.Error = err.Error()
			logger.Debug("tx reverted", "id", txCtx.ID, "index", i, "err", err)
			return &Output{Receipt: receipt, Err: ixErr}, nil
		}
	}
	receipt.Events = txCtx.Events
	return &Output{Receipt: receipt}, nil
}

func (rt *Runtime) invoke(ix *tx.Instruction, signers []ledger.Address, txCtx *xenv.TransactionContext, depth int) (err error) {
	program, ok := rt.programs[ix.ProgramID]
	if !ok {
		return errors.Wrapf(ErrUnknownProgram, "program %v", ix.ProgramID)
	}
	for _, meta := range ix.Accounts {
		if meta.Signer && !slices.Contains(signers, meta.Address) {
			return errors.Wrapf(xenv.ErrMissingSignature, "signer %v", meta.Address)
		}
	}

	label := programLabel(ix.ProgramID)
	defer func() {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		metricInstructionCount().AddWithLabel(1, map[string]string{"program": label, "result": result})
	}()

	env := xenv.New(ix.ProgramID, ix, rt.state, rt.blockCtx, txCtx,
		func(ix *tx.Instruction, signers []ledger.Address, depth int) error {
			return rt.invoke(ix, signers, txCtx, depth)
		},
		depth,
	)
	return program.Execute(env)
}
