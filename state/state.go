// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/stakevault/stakevault/cache"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/stackedmap"
)

const accountBucket = kv.Bucket("a")

var (
	ErrAccountAlreadyInUse = errors.New("account already in use")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountDataSize     = errors.New("account data size mismatch")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages account records on top of the committed store.
// A nil *Account in the stacked map marks an absent record.
type State struct {
	db    kv.Getter
	cache *cache.LRU[ledger.Address, *Account]
	sm    *stackedmap.StackedMap[ledger.Address, *Account]
}

// New create state object. The cache is optional.
func New(db kv.Getter, c *cache.LRU[ledger.Address, *Account]) *State {
	s := &State{db: db, cache: c}
	s.sm = stackedmap.New(func(addr ledger.Address) (*Account, bool, error) {
		acc, err := s.load(addr)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	})
	return s
}

// load reads the committed record, nil if absent.
// Absent records are cached too, commits refresh them.
func (s *State) load(addr ledger.Address) (*Account, error) {
	if s.cache == nil {
		return s.loadStored(addr)
	}
	return s.cache.GetOrLoad(addr, s.loadStored)
}

func (s *State) loadStored(addr ledger.Address) (*Account, error) {
	metricStoreReads().Add(1)

	data, err := accountBucket.Get(s.db, addr.Bytes())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, &Error{err}
	}
	acc, err := decodeAccount(data)
	if err != nil {
		return nil, &Error{fmt.Errorf("decode account %v: %w", addr, err)}
	}
	return acc, nil
}

func (s *State) getAccount(addr ledger.Address) (*Account, error) {
	acc, _, err := s.sm.Get(addr)
	return acc, err
}

// GetAccount returns a copy of the record at addr, or nil if absent.
func (s *State) GetAccount(addr ledger.Address) (*Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil || acc == nil {
		return nil, err
	}
	return acc.Copy(), nil
}

// Exists returns whether a record exists at addr.
func (s *State) Exists(addr ledger.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, err
	}
	return acc != nil, nil
}

// CreateAccount allocates a zero filled record of the given size.
func (s *State) CreateAccount(addr, owner ledger.Address, size int) error {
	acc, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	if acc != nil {
		return ErrAccountAlreadyInUse
	}
	s.sm.Put(addr, &Account{Owner: owner, Data: make([]byte, size)})
	return nil
}

// SetData replaces the data of an existing record.
// The record size is fixed at creation.
func (s *State) SetData(addr ledger.Address, data []byte) error {
	acc, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if len(acc.Data) != len(data) {
		return ErrAccountDataSize
	}
	s.sm.Put(addr, &Account{Owner: acc.Owner, Data: bytes.Clone(data)})
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns the checkpoint to revert to.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo discards every change made after the checkpoint.
func (s *State) RevertTo(checkpoint int) {
	if checkpoint <= 0 || checkpoint > s.sm.Depth() {
		panic("state: invalid checkpoint")
	}
	s.sm.PopTo(checkpoint)
}

// Stage collects the net changes for committing.
func (s *State) Stage() *Stage {
	changes := make(map[ledger.Address]*Account)
	s.sm.Journal(func(addr ledger.Address, acc *Account) bool {
		changes[addr] = acc
		return true
	})
	return &Stage{changes: changes, cache: s.cache}
}
