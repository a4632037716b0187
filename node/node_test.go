// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/node"
	"github.com/stakevault/stakevault/tx"
)

var nonce atomic.Uint64

func newTx(ix *tx.Instruction, signer ledger.PrivateKey) *tx.Transaction {
	return new(tx.Builder).Nonce(nonce.Add(1)).Instruction(ix).Build().Sign(signer)
}

func newNode(t *testing.T, db kv.Store) *node.Node {
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	n, err := node.New(db, logDB, genesis.Localnet(), node.WithClock(func() uint64 { return 1700000000 }))
	require.NoError(t, err)
	t.Cleanup(n.Close)
	return n
}

func initialize(t *testing.T, n *node.Node) {
	out, err := n.Submit(context.Background(), initTx(n))
	require.NoError(t, err)
	require.Nil(t, out.Err)
}

func initTx(n *node.Node) *tx.Transaction {
	net := n.Network()
	owner := genesis.DevAccounts()[0]
	ix := staking.NewInitializeAccounts(net.ProgramID, owner.Address, net.TokenMint).Instruction(net.ProgramID)
	return newTx(ix, owner.PrivateKey)
}

func stakeIx(n *node.Node, acc genesis.DevAccount, amount uint64) *tx.Instruction {
	net := n.Network()
	return staking.NewStakeAccounts(net.ProgramID, acc.Address, net.TokenMint).StakeInstruction(net.ProgramID, amount)
}

func stakeTx(n *node.Node, acc genesis.DevAccount, amount uint64) *tx.Transaction {
	return newTx(stakeIx(n, acc, amount), acc.PrivateKey)
}

// withSignatures re-encodes trx carrying sigs.
func withSignatures(t *testing.T, trx *tx.Transaction, sigs []tx.Signature) *tx.Transaction {
	data, err := rlp.EncodeToBytes([]any{trx.Nonce(), trx.Instructions(), sigs})
	require.NoError(t, err)
	var out tx.Transaction
	require.NoError(t, rlp.DecodeBytes(data, &out))
	return &out
}

func TestSubmit(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)
	ctx := context.Background()

	assert.Equal(t, uint64(0), n.Slot())
	initialize(t, n)
	assert.Equal(t, uint64(1), n.Slot())

	user := genesis.DevAccounts()[1]
	trx := stakeTx(n, user, 100)
	out, err := n.Submit(ctx, trx)
	require.NoError(t, err)
	require.Nil(t, out.Err)
	assert.Equal(t, uint64(2), out.Receipt.Slot)
	assert.Equal(t, uint64(1700000000), out.Receipt.Time)

	us, err := n.StakingReader().Stake(user.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), us.Balance)

	// replay
	_, err = n.Submit(ctx, trx)
	assert.ErrorIs(t, err, node.ErrDuplicateTx)
	assert.Equal(t, uint64(2), n.Slot())

	// replay with a repeated signature
	sigs := trx.Signatures()
	_, err = n.Submit(ctx, withSignatures(t, trx, append(sigs, sigs[0])))
	assert.ErrorIs(t, err, tx.ErrDuplicateSigner)
	assert.Equal(t, uint64(2), n.Slot())
	us, err = n.StakingReader().Stake(user.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), us.Balance)

	// a reverted tx consumes its slot without events
	out, err = n.Submit(ctx, stakeTx(n, user, 0))
	require.NoError(t, err)
	assert.True(t, out.Receipt.Reverted)
	assert.ErrorIs(t, out.Err, staking.ErrZeroAmount)
	assert.Empty(t, out.Receipt.Events)
	assert.Equal(t, uint64(3), n.Slot())

	// unsigned tx is rejected
	net := n.Network()
	ix := staking.NewStakeAccounts(net.ProgramID, user.Address, net.TokenMint).StakeInstruction(net.ProgramID, 1)
	_, err = n.Submit(ctx, new(tx.Builder).Nonce(nonce.Add(1)).Instruction(ix).Build())
	assert.ErrorIs(t, err, tx.ErrMissingSignature)
	assert.Equal(t, uint64(3), n.Slot())

	events, err := n.LogDB().FilterEvents(ctx, &logdb.EventFilter{User: &user.Address})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, staking.EventStaked, events[0].Name)
	assert.Equal(t, uint64(100), *events[0].Amount)
	assert.Equal(t, uint64(2), events[0].Slot)

	all, err := n.LogDB().FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, staking.EventInitialized, all[0].Name)
	assert.Nil(t, all[0].User)
}

func TestReplayReorderedSignatures(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)
	ctx := context.Background()
	initialize(t, n)

	a, b := genesis.DevAccounts()[2], genesis.DevAccounts()[3]
	unsigned := new(tx.Builder).
		Nonce(nonce.Add(1)).
		Instruction(stakeIx(n, a, 5)).
		Instruction(stakeIx(n, b, 5)).
		Build()

	out, err := n.Submit(ctx, unsigned.Sign(a.PrivateKey).Sign(b.PrivateKey))
	require.NoError(t, err)
	require.Nil(t, out.Err)

	reordered := unsigned.Sign(b.PrivateKey).Sign(a.PrivateKey)
	require.NoError(t, reordered.Verify())
	_, err = n.Submit(ctx, reordered)
	assert.ErrorIs(t, err, node.ErrDuplicateTx)
	assert.Equal(t, uint64(2), n.Slot())

	gs, err := n.StakingReader().State()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), gs.TotalStaked)
}

func TestSubscribeReceipts(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)

	ch := make(chan *tx.Receipt, 4)
	sub := n.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	initialize(t, n)
	r := <-ch
	assert.Equal(t, uint64(1), r.Slot)
	require.Len(t, r.Events, 1)
	assert.Equal(t, staking.EventInitialized, r.Events[0].Name)
}

func TestStalledSubscriber(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)

	stalled := make(chan *tx.Receipt)
	stalledSub := n.SubscribeReceipts(stalled)
	defer stalledSub.Unsubscribe()

	live := make(chan *tx.Receipt, 4)
	liveSub := n.SubscribeReceipts(live)
	defer liveSub.Unsubscribe()

	errc := make(chan error, 1)
	go func() {
		ctx := context.Background()
		if _, err := n.Submit(ctx, initTx(n)); err != nil {
			errc <- err
			return
		}
		_, err := n.Submit(ctx, stakeTx(n, genesis.DevAccounts()[1], 1))
		errc <- err
	}()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("submit blocked by a stalled subscriber")
	}
	assert.Equal(t, uint64(2), n.Slot())

	select {
	case err := <-stalledSub.Err():
		assert.ErrorIs(t, err, node.ErrReceiptsDropped)
	case <-time.After(5 * time.Second):
		t.Fatal("stalled subscriber not dropped")
	}

	require.Len(t, live, 2)
	assert.Equal(t, uint64(1), (<-live).Slot)
	assert.Equal(t, uint64(2), (<-live).Slot)
}

func TestReopen(t *testing.T) {
	path := t.TempDir()
	db, err := kv.Open(path, kv.Options{})
	require.NoError(t, err)

	n := newNode(t, db)
	initialize(t, n)
	_, err = n.Submit(context.Background(), stakeTx(n, genesis.DevAccounts()[2], 7))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = kv.Open(path, kv.Options{})
	require.NoError(t, err)
	defer db.Close()

	n = newNode(t, db)
	assert.Equal(t, uint64(2), n.Slot())
	gs, err := n.StakingReader().State()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), gs.TotalStaked)

	_, err = node.New(db, nil, genesis.Testnet())
	assert.ErrorIs(t, err, node.ErrNetworkMismatch)
}

func TestConcurrentSubmit(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)
	initialize(t, n)

	var g errgroup.Group
	for _, acc := range genesis.DevAccounts() {
		for range 10 {
			g.Go(func() error {
				out, err := n.Submit(context.Background(), stakeTx(n, acc, 5))
				if err != nil {
					return err
				}
				if out.Err != nil {
					return out.Err
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, uint64(1+50), n.Slot())
	gs, err := n.StakingReader().State()
	require.NoError(t, err)
	assert.Equal(t, uint64(250), gs.TotalStaked)
	for _, acc := range genesis.DevAccounts() {
		us, err := n.StakingReader().Stake(acc.Address)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), us.Balance)
	}
}

func TestCanceledSubmit(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n := newNode(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = n.Submit(ctx, stakeTx(n, genesis.DevAccounts()[1], 1))
	assert.ErrorIs(t, err, context.Canceled)
}
