// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/ledger"
)

// Account is an owned, fixed size data record.
// Only the owner program may change Data.
type Account struct {
	Owner ledger.Address
	Data  []byte
}

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	return &Account{
		Owner: a.Owner,
		Data:  bytes.Clone(a.Data),
	}
}

func encodeAccount(a *Account) ([]byte, error) {
	return rlp.EncodeToBytes(a)
}

func decodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	if a.Data == nil {
		a.Data = []byte{}
	}
	return &a, nil
}
