// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync/atomic"

	"github.com/stakevault/stakevault/ledger"
)

const tokenDecimals = 9

var (
	testnetOwner = ledger.MustParseAddress("Dq8RjxwfD1XT4AXNo5pxx6grRNruj7gdSChChQxARMe1")
	testnetMint  = ledger.MustParseAddress("H5HwNswMvoHXHXqYuk1BkxXaiC3azj8gjy7qhwsdQLDt")
)

// Mainnet is the production deployment.
func Mainnet() *Network {
	return &Network{
		Name:          "mainnet",
		ProgramID:     ledger.MustParseAddress("4D9WKeKXKCEjzZfuLgU3H7P9J1cJ1HZ2fPURAX8ceqKc"),
		ExpectedOwner: ledger.MustParseAddress("65mxnibS4DL2qqL24GpMJqtNxgEzWgnARTMvXv5SePUb"),
		TokenMint:     ledger.MustParseAddress("8f62NyJGo7He5uWeveTA2JJQf4xzf8aqxkmzxRQ3mxfU"),
		TokenDecimals: tokenDecimals,
		LaunchTime:    1735689600, // 2025-01-01 00:00:00 UTC
	}
}

// Testnet is the public test deployment.
func Testnet() *Network {
	return &Network{
		Name:          "testnet",
		ProgramID:     ledger.MustParseAddress("5HWYY9fuyvCrvV66GCg5hPbf7XARCcybuQrdJGGEbEVH"),
		ExpectedOwner: testnetOwner,
		TokenMint:     testnetMint,
		TokenDecimals: tokenDecimals,
		LaunchTime:    1735689600,
	}
}

// Localnet is a single machine deployment owned by the first dev account.
// Every dev account is funded with one million tokens.
func Localnet() *Network {
	accs := DevAccounts()
	allocs := make([]Allocation, 0, len(accs))
	for _, a := range accs {
		allocs = append(allocs, Allocation{Owner: a.Address, Amount: 1_000_000 * 1_000_000_000})
	}
	return &Network{
		Name:          "localnet",
		ProgramID:     ledger.MustParseAddress("9aZRVnxzy8kRiq8mHcfFBj1BX2hY7ixUJH24Q4aYjycd"),
		ExpectedOwner: accs[0].Address,
		TokenMint:     testnetMint,
		TokenDecimals: tokenDecimals,
		LaunchTime:    1735689600,
		Allocations:   allocs,
	}
}

// DevAccount account for development.
type DevAccount struct {
	Address    ledger.Address
	PrivateKey ledger.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the pre-funded accounts of localnet.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	seeds := []string{
		"709b82792e185caf581e9b80a90e9d93754f5f8c396834b77836c470467d8156",
		"c959daf3c8c3bb5137e6cfe3d1750f5158cb986c9047f7819368fedbd8706d90",
		"b57a6bb83818d55dab0c7dbf5b984d8e21683022ad3b21099e0c75395669db91",
		"d60f91e2c37d2c49a9ef01f33d54e55bfdcf8c594484cd7997bc7acd1e4fa6be",
		"c71754a59ca6440f5f7dd49cf06ae33b7525abdb8399e2c9beddcf2a55c2cc5f",
	}
	for _, str := range seeds {
		seed, err := ledger.ParseBytes32(str)
		if err != nil {
			panic(err)
		}
		pk := ledger.KeyFromSeed(seed)
		accs = append(accs, DevAccount{ledger.AddressOf(pk), pk})
	}
	devAccounts.Store(accs)
	return accs
}
