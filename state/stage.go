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

// Stage abstracts the net changes of a state.
type Stage struct {
	changes map[ledger.Address]*Account
	cache   *cache.LRU[ledger.Address, *Account]
}

// Len returns the count of changed records.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit appends the changes to batch and writes it.
// The record cache is refreshed only after the batch is persisted.
func (s *Stage) Commit(batch kv.Batch) error {
	for addr, acc := range s.changes {
		if acc == nil {
			if err := accountBucket.Delete(batch, addr.Bytes()); err != nil {
				return &Error{err}
			}
			continue
		}
		data, err := encodeAccount(acc)
		if err != nil {
			return &Error{err}
		}
		if err := accountBucket.Put(batch, addr.Bytes(), data); err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	if s.cache != nil {
		for addr, acc := range s.changes {
			s.cache.Add(addr, acc)
		}
		metricCacheSize().Set(int64(s.cache.Len()))
		metricCacheHitRate().Set(int64(s.cache.HitRate() * 100))
	}
	metricAccountWrites().Add(int64(len(s.changes)))
	return nil
}
