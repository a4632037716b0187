// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/stakevault/stakevault/cache"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
)

const defaultCacheSize = 4096

// Stater is the state creator.
// States created by one stater share the record cache.
type Stater struct {
	db    kv.Store
	cache *cache.LRU[ledger.Address, *Account]
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	c, _ := cache.NewLRU[ledger.Address, *Account](defaultCacheSize)
	return &Stater{db: db, cache: c}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return New(s.db, s.cache)
}

// ForEach iterates committed records in address order.
// The iteration aborts once fn returns false.
func (s *Stater) ForEach(fn func(addr ledger.Address, acc *Account) bool) error {
	it := s.db.Iterate(accountBucket.Range())
	defer it.Release()

	for it.Next() {
		acc, err := decodeAccount(it.Value())
		if err != nil {
			return &Error{err}
		}
		if !fn(ledger.BytesToAddress(accountBucket.TrimKey(it.Key())), acc) {
			break
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	return nil
}
