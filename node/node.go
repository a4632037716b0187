// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node executes submitted transactions one at a time against the persisted ledger.
package node

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/tx"
	"github.com/stakevault/stakevault/xenv"
)

var logger = log.WithContext("pkg", "node")

var (
	metaBucket = kv.Bucket("m")
	txBucket   = kv.Bucket("t")

	genesisKey = []byte("genesis")
	slotKey    = []byte("slot")
)

var (
	ErrNetworkMismatch = errors.New("data belongs to another network")
	ErrDuplicateTx     = errors.New("tx already executed")
	ErrReceiptsDropped = errors.New("receipt subscriber fell behind")
)

// receiptListener is a subscriber channel, lagged is closed once it misses a receipt.
type receiptListener struct {
	ch     chan<- *tx.Receipt
	lagged chan struct{}
}

// Node is the abstraction of local node.
type Node struct {
	lock    sync.Mutex
	network *genesis.Network
	db      kv.Store
	stater  *state.Stater
	logDB   *logdb.LogDB
	clock   func() uint64
	slot    uint64

	programs []runtime.Program

	listenersLock sync.Mutex
	listeners     map[*receiptListener]struct{}
	scope         event.SubscriptionScope
}

// Option configures a node.
type Option func(*Node)

// WithClock replaces the wall clock, in unix seconds, stamped on each slot.
func WithClock(clock func() uint64) Option {
	return func(n *Node) { n.clock = clock }
}

// New opens the ledger stored in db, building the genesis state of network on first use.
func New(db kv.Store, logDB *logdb.LogDB, network *genesis.Network, opts ...Option) (*Node, error) {
	n := &Node{
		network:   network,
		db:        db,
		stater:    state.NewStater(db),
		logDB:     logDB,
		clock:     func() uint64 { return uint64(time.Now().Unix()) },
		listeners: make(map[*receiptListener]struct{}),
		programs: []runtime.Program{
			token.New(),
			staking.New(network.StakingConfig()),
		},
	}
	for _, opt := range opts {
		opt(n)
	}

	id := network.ID()
	stored, err := metaBucket.Get(db, genesisKey)
	switch {
	case db.IsNotFound(err):
		if err := n.buildGenesis(id); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		logger.Info("genesis built", "network", network.Name, "id", id)
	case err != nil:
		return nil, err
	case ledger.BytesToBytes32(stored) != id:
		return nil, errors.WithMessagef(ErrNetworkMismatch, "want %v", network.Name)
	default:
		slot, err := metaBucket.Get(db, slotKey)
		if err != nil {
			return nil, err
		}
		n.slot = binary.BigEndian.Uint64(slot)
	}
	metricSlot().Set(int64(n.slot))
	return n, nil
}

func (n *Node) buildGenesis(id ledger.Bytes32) error {
	st := n.stater.NewState()
	if err := n.network.Build(st); err != nil {
		return err
	}
	batch := n.db.NewBatch()
	if err := metaBucket.Put(batch, genesisKey, id.Bytes()); err != nil {
		return err
	}
	if err := putSlot(batch, 0); err != nil {
		return err
	}
	return st.Stage().Commit(batch)
}

func putSlot(p kv.Putter, slot uint64) error {
	return metaBucket.Put(p, slotKey, binary.BigEndian.AppendUint64(nil, slot))
}

func (n *Node) Network() *genesis.Network { return n.network }
func (n *Node) LogDB() *logdb.LogDB       { return n.logDB }

// Slot returns the slot of the last executed tx.
func (n *Node) Slot() uint64 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.slot
}

// State returns a fresh view of the committed state.
func (n *Node) State() *state.State {
	return n.stater.NewState()
}

// StakingReader reads the committed staking records.
func (n *Node) StakingReader() *staking.Reader {
	return staking.NewReader(n.network.ProgramID, n.State())
}

// TokenReader reads the committed token records.
func (n *Node) TokenReader() *token.Reader {
	return token.NewReader(n.State())
}

// Stater exposes the record store, for inspection.
func (n *Node) Stater() *state.Stater {
	return n.stater
}

// SubscribeReceipts delivers the receipt of every executed tx, in slot order.
// Delivery never blocks submission: a receiver whose ch is full is dropped and
// its subscription fails with ErrReceiptsDropped.
func (n *Node) SubscribeReceipts(ch chan<- *tx.Receipt) event.Subscription {
	lsn := &receiptListener{ch: ch, lagged: make(chan struct{})}
	n.listenersLock.Lock()
	n.listeners[lsn] = struct{}{}
	n.listenersLock.Unlock()

	return n.scope.Track(event.NewSubscription(func(quit <-chan struct{}) error {
		defer func() {
			n.listenersLock.Lock()
			delete(n.listeners, lsn)
			n.listenersLock.Unlock()
		}()
		select {
		case <-quit:
			return nil
		case <-lsn.lagged:
			return ErrReceiptsDropped
		}
	}))
}

// broadcast hands receipt to every listener in a non-blocking manner.
func (n *Node) broadcast(receipt *tx.Receipt) {
	n.listenersLock.Lock()
	defer n.listenersLock.Unlock()

	for lsn := range n.listeners {
		select {
		case lsn.ch <- receipt:
		default:
			delete(n.listeners, lsn)
			close(lsn.lagged)
			metricDroppedSubscribers().Add(1)
			logger.Debug("receipt subscriber dropped", "slot", receipt.Slot)
		}
	}
}

// Submit executes trx in the next slot.
// An error is returned when trx is rejected; a reverted tx still consumes the slot.
func (n *Node) Submit(ctx context.Context, trx *tx.Transaction) (*runtime.Output, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := trx.ID()
	// keyed by the signed content, signatures can be re-arranged without re-signing
	hash := trx.SigningHash()
	if has, err := txBucket.Has(n.db, hash.Bytes()); err != nil {
		return nil, err
	} else if has {
		return nil, errors.WithMessagef(ErrDuplicateTx, "id %v", id)
	}

	started := time.Now()
	slot := n.slot + 1
	st := n.stater.NewState()
	rt := runtime.New(st, &xenv.BlockContext{Slot: slot, Time: n.clock()}, n.programs...)
	out, err := rt.ExecuteTransaction(trx)
	if err != nil {
		metricTxCount().AddWithLabel(1, map[string]string{"result": "rejected"})
		return nil, err
	}

	batch := n.db.NewBatch()
	if err := txBucket.Put(batch, hash.Bytes(), binary.BigEndian.AppendUint64(nil, slot)); err != nil {
		return nil, err
	}
	if err := putSlot(batch, slot); err != nil {
		return nil, err
	}
	if err := st.Stage().Commit(batch); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	n.slot = slot
	metricSlot().Set(int64(slot))

	if n.logDB != nil {
		if err := n.logDB.Insert(n.indexEvents(out.Receipt)); err != nil {
			// the ledger is already committed, the index is best effort
			logger.Warn("failed to index events", "slot", slot, "err", err)
		}
	}

	result := "ok"
	if out.Receipt.Reverted {
		result = "reverted"
	}
	metricTxCount().AddWithLabel(1, map[string]string{"result": result})
	metricTxDuration().ObserveWithLabels(time.Since(started).Milliseconds(), map[string]string{"result": result})
	logger.Debug("tx executed", "id", id, "slot", slot, "reverted", out.Receipt.Reverted, "events", len(out.Receipt.Events))

	n.broadcast(out.Receipt)
	return out, nil
}

// indexEvents converts receipt events, extracting participant and amount of staking events.
func (n *Node) indexEvents(receipt *tx.Receipt) []*logdb.Event {
	events := make([]*logdb.Event, 0, len(receipt.Events))
	for i, ev := range receipt.Events {
		entry := logdb.NewEvent(receipt, uint32(i), ev)
		if ev.Program == n.network.ProgramID {
			if _, decoded, err := staking.DecodeEvent(ev.Data); err == nil {
				if sc, ok := decoded.(*staking.StakeChanged); ok {
					user, amount := sc.User, sc.Amount
					entry.User = &user
					entry.Amount = &amount
				}
			}
		}
		events = append(events, entry)
	}
	return events
}

// Close ends all receipt subscriptions.
func (n *Node) Close() {
	n.scope.Close()
}
