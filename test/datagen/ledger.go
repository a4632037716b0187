// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/stakevault/stakevault/ledger"
)

func RandomHash() ledger.Bytes32 {
	var b32 ledger.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr ledger.Address) {
	rand.Read(addr[:])
	return
}

// RandAccount returns a fresh keypair.
func RandAccount() (ledger.Address, ledger.PrivateKey) {
	priv, err := ledger.GenerateKey()
	if err != nil {
		panic(err)
	}
	return ledger.AddressOf(priv), priv
}
