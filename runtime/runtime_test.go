// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/tx"
	"github.com/stakevault/stakevault/xenv"
)

type funcProgram struct {
	id   ledger.Address
	exec func(env *xenv.Environment) error
}

func (p *funcProgram) ID() ledger.Address                  { return p.id }
func (p *funcProgram) Execute(env *xenv.Environment) error { return p.exec(env) }

var (
	callerID = ledger.BytesToAddress([]byte("caller"))
	calleeID = ledger.BytesToAddress([]byte("callee"))
	errBoom  = errors.New("boom")
)

func newState(t *testing.T) *state.State {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewStater(db).NewState()
}

// caller ops: 0 create record, 1 emit, 2 fail, 3 invoke callee as pda, 4 invoke callee without seeds
func newCaller() *funcProgram {
	record, _ := ledger.MustFindProgramAddress([][]byte{[]byte("rec")}, callerID)
	return &funcProgram{id: callerID, exec: func(env *xenv.Environment) error {
		switch env.Data()[0] {
		case 0:
			_, bump := ledger.MustFindProgramAddress([][]byte{[]byte("rec")}, callerID)
			if err := env.CreateAccount(record, 1, []byte("rec"), []byte{bump}); err != nil {
				return err
			}
			return env.Store(record, env.Data()[1:2])
		case 1:
			env.Emit("Ping", env.Data()[1:])
			return nil
		case 2:
			return errBoom
		case 3, 4:
			pda, bump := ledger.MustFindProgramAddress([][]byte{[]byte("auth")}, callerID)
			ix := &tx.Instruction{
				ProgramID: calleeID,
				Accounts:  []tx.AccountMeta{tx.NewAccountMeta(pda, true, false)},
			}
			if env.Data()[0] == 4 {
				return env.Invoke(ix)
			}
			return env.Invoke(ix, [][]byte{[]byte("auth"), {bump}})
		}
		return nil
	}}
}

func newCallee() *funcProgram {
	return &funcProgram{id: calleeID, exec: func(env *xenv.Environment) error {
		meta, err := env.Account(0)
		if err != nil {
			return err
		}
		if !env.IsSigner(meta.Address) {
			return xenv.ErrMissingSignature
		}
		env.Emit("Called", meta.Address.Bytes())
		return nil
	}}
}

func callerIx(signer ledger.Address, data ...byte) *tx.Instruction {
	record, _ := ledger.MustFindProgramAddress([][]byte{[]byte("rec")}, callerID)
	pda, _ := ledger.MustFindProgramAddress([][]byte{[]byte("auth")}, callerID)
	return &tx.Instruction{
		ProgramID: callerID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(signer, true, true),
			tx.NewAccountMeta(record, false, true),
			tx.NewAccountMeta(pda, false, false),
		},
		Data: data,
	}
}

func TestExecuteTransaction(t *testing.T) {
	st := newState(t)
	rt := runtime.New(st, &xenv.BlockContext{Slot: 7, Time: 100}, newCaller(), newCallee())

	key := ledger.KeyFromSeed(ledger.Bytes32{1})
	signer := ledger.AddressOf(key)

	trx := new(tx.Builder).
		Instruction(callerIx(signer, 0, 42)).
		Instruction(callerIx(signer, 1, 9)).
		Instruction(callerIx(signer, 3)).
		Build().Sign(key)

	out, err := rt.ExecuteTransaction(trx)
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.False(t, out.Receipt.Reverted)
	assert.Equal(t, uint64(7), out.Receipt.Slot)
	require.Len(t, out.Receipt.Events, 2)
	assert.Equal(t, "Ping", out.Receipt.Events[0].Name)
	assert.Equal(t, []byte{9}, out.Receipt.Events[0].Data)
	assert.Equal(t, calleeID, out.Receipt.Events[1].Program)

	record, _ := ledger.MustFindProgramAddress([][]byte{[]byte("rec")}, callerID)
	acc, err := st.GetAccount(record)
	require.NoError(t, err)
	assert.Equal(t, callerID, acc.Owner)
	assert.Equal(t, []byte{42}, acc.Data)
}

func TestRevertOnFailure(t *testing.T) {
	st := newState(t)
	rt := runtime.New(st, &xenv.BlockContext{}, newCaller(), newCallee())

	key := ledger.KeyFromSeed(ledger.Bytes32{1})
	signer := ledger.AddressOf(key)

	trx := new(tx.Builder).
		Instruction(callerIx(signer, 0, 42)).
		Instruction(callerIx(signer, 2)).
		Build().Sign(key)

	out, err := rt.ExecuteTransaction(trx)
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	assert.ErrorIs(t, out.Err, errBoom)
	assert.Equal(t, uint32(1), out.Err.Index)
	assert.True(t, out.Receipt.Reverted)
	assert.Empty(t, out.Receipt.Events)

	record, _ := ledger.MustFindProgramAddress([][]byte{[]byte("rec")}, callerID)
	exists, err := st.Exists(record)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRejects(t *testing.T) {
	st := newState(t)
	rt := runtime.New(st, &xenv.BlockContext{}, newCaller(), newCallee())

	key := ledger.KeyFromSeed(ledger.Bytes32{1})
	signer := ledger.AddressOf(key)

	// unsigned
	_, err := rt.ExecuteTransaction(new(tx.Builder).Instruction(callerIx(signer, 1)).Build())
	assert.ErrorIs(t, err, tx.ErrMissingSignature)

	// unknown program
	ix := callerIx(signer, 1)
	ix.ProgramID = ledger.BytesToAddress([]byte("nobody"))
	out, err := rt.ExecuteTransaction(new(tx.Builder).Instruction(ix).Build().Sign(key))
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, runtime.ErrUnknownProgram)

	// pda signature without seeds
	out, err = rt.ExecuteTransaction(new(tx.Builder).Instruction(callerIx(signer, 4)).Build().Sign(key))
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, xenv.ErrPrivilegeEscalation)

	// record already created
	out, err = rt.ExecuteTransaction(new(tx.Builder).Instruction(callerIx(signer, 0, 1)).Build().Sign(key))
	require.NoError(t, err)
	require.Nil(t, out.Err)
	out, err = rt.ExecuteTransaction(new(tx.Builder).Nonce(1).Instruction(callerIx(signer, 0, 1)).Build().Sign(key))
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, state.ErrAccountAlreadyInUse)
}
