// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/tx"
)

var (
	programID = ledger.BytesToAddress([]byte("program"))
	otherID   = ledger.BytesToAddress([]byte("other"))
)

func newEnv(t *testing.T, metas []tx.AccountMeta, invoker Invoker, depth int) (*Environment, *state.State) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	ix := &tx.Instruction{ProgramID: programID, Accounts: metas, Data: []byte{1}}
	return New(programID, ix, st, &BlockContext{Slot: 1}, &TransactionContext{}, invoker, depth), st
}

func TestAccountAccess(t *testing.T) {
	owned := ledger.BytesToAddress([]byte("owned"))
	foreign := ledger.BytesToAddress([]byte("foreign"))
	readonly := ledger.BytesToAddress([]byte("readonly"))
	unlisted := ledger.BytesToAddress([]byte("unlisted"))

	env, st := newEnv(t, []tx.AccountMeta{
		tx.NewAccountMeta(owned, false, true),
		tx.NewAccountMeta(foreign, false, true),
		tx.NewAccountMeta(readonly, false, false),
		// duplicated metas merge privileges
		tx.NewAccountMeta(readonly, true, false),
	}, nil, 0)

	require.NoError(t, st.CreateAccount(owned, programID, 2))
	require.NoError(t, st.CreateAccount(foreign, otherID, 2))
	require.NoError(t, st.CreateAccount(readonly, programID, 2))

	assert.Equal(t, 4, env.NumAccounts())
	_, err := env.Account(4)
	assert.ErrorIs(t, err, ErrMissingAccount)

	assert.True(t, env.IsSigner(readonly))
	assert.False(t, env.IsWritable(readonly))

	_, err = env.Load(unlisted)
	assert.ErrorIs(t, err, ErrMissingAccount)

	require.NoError(t, env.Store(owned, []byte{1, 2}))
	assert.ErrorIs(t, env.Store(owned, []byte{1}), state.ErrAccountDataSize)
	assert.ErrorIs(t, env.Store(foreign, []byte{1, 2}), ErrAccountNotOwned)
	assert.ErrorIs(t, env.Store(readonly, []byte{1, 2}), ErrReadonlyAccount)
	assert.ErrorIs(t, env.Store(unlisted, []byte{1, 2}), ErrMissingAccount)

	acc, err := env.Load(owned)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, acc.Data)
}

func TestCreateAccount(t *testing.T) {
	pda, bump := ledger.MustFindProgramAddress([][]byte{[]byte("seed")}, programID)
	foreignPDA, _ := ledger.MustFindProgramAddress([][]byte{[]byte("seed")}, otherID)

	env, _ := newEnv(t, []tx.AccountMeta{
		tx.NewAccountMeta(pda, false, true),
		tx.NewAccountMeta(foreignPDA, false, true),
	}, nil, 0)

	assert.ErrorIs(t, env.CreateAccount(foreignPDA, 8, []byte("seed"), []byte{bump}), ErrInvalidSeeds)
	require.NoError(t, env.CreateAccount(pda, 8, []byte("seed"), []byte{bump}))
	assert.ErrorIs(t, env.CreateAccount(pda, 8, []byte("seed"), []byte{bump}), state.ErrAccountAlreadyInUse)

	acc, err := env.Load(pda)
	require.NoError(t, err)
	assert.Equal(t, programID, acc.Owner)
	assert.Len(t, acc.Data, 8)
}

func TestInvoke(t *testing.T) {
	user := ledger.BytesToAddress([]byte("user"))
	pda, bump := ledger.MustFindProgramAddress([][]byte{[]byte("auth")}, programID)

	var gotSigners []ledger.Address
	var gotDepth int
	invoker := func(ix *tx.Instruction, signers []ledger.Address, depth int) error {
		gotSigners, gotDepth = signers, depth
		return nil
	}
	env, _ := newEnv(t, []tx.AccountMeta{
		tx.NewAccountMeta(user, true, false),
		tx.NewAccountMeta(pda, false, true),
	}, invoker, 0)

	ix := &tx.Instruction{
		ProgramID: otherID,
		Accounts: []tx.AccountMeta{
			tx.NewAccountMeta(user, true, false),
			tx.NewAccountMeta(pda, true, true),
		},
	}
	require.NoError(t, env.Invoke(ix, [][]byte{[]byte("auth"), {bump}}))
	assert.Equal(t, []ledger.Address{user, pda}, gotSigners)
	assert.Equal(t, 1, gotDepth)

	// pda can not sign without its seeds
	assert.ErrorIs(t, env.Invoke(ix), ErrPrivilegeEscalation)

	// writable escalation
	ix.Accounts[0].Writable = true
	assert.ErrorIs(t, env.Invoke(ix, [][]byte{[]byte("auth"), {bump}}), ErrPrivilegeEscalation)

	// unlisted account
	ix.Accounts = []tx.AccountMeta{tx.NewAccountMeta(otherID, false, false)}
	assert.ErrorIs(t, env.Invoke(ix), ErrMissingAccount)

	deep, _ := newEnv(t, nil, invoker, MaxInvokeDepth)
	assert.ErrorIs(t, deep.Invoke(&tx.Instruction{ProgramID: otherID}), ErrCallDepth)
}

func TestEmit(t *testing.T) {
	env, _ := newEnv(t, nil, nil, 0)
	data := []byte{1, 2}
	env.Emit("Ping", data)
	data[0] = 9

	events := env.TransactionContext().Events
	require.Len(t, events, 1)
	assert.Equal(t, programID, events[0].Program)
	assert.Equal(t, []byte{1, 2}, events[0].Data)
}
