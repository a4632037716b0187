// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain runs an in-memory localnet node for tests.
package testchain

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/node"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/tx"
)

// GenesisTime is the clock of every test chain.
const GenesisTime = 1700000000

// Chain wraps a node backed by in-memory databases.
type Chain struct {
	db    *kv.LevelDB
	logDB *logdb.LogDB
	node  *node.Node
	nonce atomic.Uint64
}

// New creates a localnet chain.
func New() (*Chain, error) {
	return NewWithNetwork(genesis.Localnet())
}

// NewWithNetwork creates a chain for network.
func NewWithNetwork(network *genesis.Network) (*Chain, error) {
	db, err := kv.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	n, err := node.New(db, logDB, network, node.WithClock(func() uint64 { return GenesisTime }))
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Chain{db: db, logDB: logDB, node: n}, nil
}

func (c *Chain) Node() *node.Node          { return c.node }
func (c *Chain) Network() *genesis.Network { return c.node.Network() }
func (c *Chain) LogDB() *logdb.LogDB       { return c.logDB }
func (c *Chain) Database() kv.Store        { return c.db }
func (c *Chain) Owner() genesis.DevAccount { return genesis.DevAccounts()[0] }

// BuildTx creates a tx of ixs signed by signer, with a unique nonce.
func (c *Chain) BuildTx(signer genesis.DevAccount, ixs ...*tx.Instruction) *tx.Transaction {
	b := new(tx.Builder).Nonce(c.nonce.Add(1))
	for _, ix := range ixs {
		b.Instruction(ix)
	}
	return b.Build().Sign(signer.PrivateKey)
}

// MintTransaction submits a tx and fails if it is rejected or reverted.
func (c *Chain) MintTransaction(signer genesis.DevAccount, ixs ...*tx.Instruction) (*runtime.Output, error) {
	out, err := c.node.Submit(context.Background(), c.BuildTx(signer, ixs...))
	if err != nil {
		return nil, err
	}
	if out.Err != nil {
		return out, fmt.Errorf("tx reverted: %w", out.Err)
	}
	return out, nil
}

// Initialize initializes the staking program with the localnet owner.
func (c *Chain) Initialize() error {
	net := c.Network()
	ix := staking.NewInitializeAccounts(net.ProgramID, c.Owner().Address, net.TokenMint).Instruction(net.ProgramID)
	_, err := c.MintTransaction(c.Owner(), ix)
	return err
}

func (c *Chain) Stake(acc genesis.DevAccount, amount uint64) error {
	net := c.Network()
	ix := staking.NewStakeAccounts(net.ProgramID, acc.Address, net.TokenMint).StakeInstruction(net.ProgramID, amount)
	_, err := c.MintTransaction(acc, ix)
	return err
}

func (c *Chain) Unstake(acc genesis.DevAccount, amount uint64) error {
	net := c.Network()
	ix := staking.NewStakeAccounts(net.ProgramID, acc.Address, net.TokenMint).UnstakeInstruction(net.ProgramID, amount)
	_, err := c.MintTransaction(acc, ix)
	return err
}

func (c *Chain) Pause() error {
	net := c.Network()
	_, err := c.MintTransaction(c.Owner(), staking.PauseInstruction(net.ProgramID, c.Owner().Address))
	return err
}

// Close releases the node and both databases.
func (c *Chain) Close() error {
	c.node.Close()
	return errors.Join(c.logDB.Close(), c.db.Close())
}
