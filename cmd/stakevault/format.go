// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func printReceipt(w io.Writer, out *runtime.Output) {
	r := out.Receipt
	fmt.Fprintf(w, "Tx           [ %v ]\n", r.TxID)
	fmt.Fprintf(w, "Slot         [ %v @%v ]\n", r.Slot, time.Unix(int64(r.Time), 0).UTC().Format(time.RFC3339))
	if r.Reverted {
		fmt.Fprintf(w, "Reverted     [ instruction %v: %v ]\n", r.FailedIndex, r.Error)
		return
	}
	for _, ev := range r.Events {
		fmt.Fprintf(w, "Event        [ %v %v ]\n", ev.Name, hexutil.Encode(ev.Data))
	}
}

func printState(w io.Writer, network *genesis.Network, gs *staking.GlobalState, vault *token.Account) {
	authority, _ := staking.VaultAuthority(network.ProgramID, gs.TokenMint)
	fmt.Fprintf(w, `Network         [ %v ]
Program         [ %v ]
Owner           [ %v ]
Token mint      [ %v ]
Vault authority [ %v ]
Vault account   [ %v ]
Total staked    [ %v ]
Vault balance   [ %v ]
Paused          [ %v ]
`,
		network.Name,
		network.ProgramID,
		gs.Owner,
		gs.TokenMint,
		authority,
		gs.VaultAccount,
		token.FormatAmount(gs.TotalStaked, network.TokenDecimals),
		token.FormatAmount(vault.Amount, network.TokenDecimals),
		gs.Paused,
	)
}

// verifyState checks the stored state belongs to the configured network.
func verifyState(network *genesis.Network, gs *staking.GlobalState, vault *token.Account) error {
	if gs.TokenMint != network.TokenMint {
		return fmt.Errorf("token mint mismatch: stored %v, network %v", gs.TokenMint, network.TokenMint)
	}
	if gs.Owner != network.ExpectedOwner {
		return fmt.Errorf("owner mismatch: stored %v, network %v", gs.Owner, network.ExpectedOwner)
	}
	if want := staking.VaultAccount(network.ProgramID, network.TokenMint); gs.VaultAccount != want {
		return fmt.Errorf("vault account mismatch: stored %v, derived %v", gs.VaultAccount, want)
	}
	if vault.Amount < gs.TotalStaked {
		return fmt.Errorf("vault holds %v, less than the total staked %v", vault.Amount, gs.TotalStaked)
	}
	return nil
}

func printStake(w io.Writer, network *genesis.Network, user ledger.Address, us *staking.UserStake) {
	stakeAddr, _ := staking.UserStakeAddress(network.ProgramID, user)
	var balance uint64
	if us != nil {
		balance = us.Balance
	}
	fmt.Fprintf(w, "User          [ %v ]\n", user)
	fmt.Fprintf(w, "Stake account [ %v ]\n", stakeAddr)
	if us == nil {
		fmt.Fprintf(w, "Balance       [ 0 (never staked) ]\n")
		return
	}
	fmt.Fprintf(w, "Balance       [ %v (%v base units) ]\n", token.FormatAmount(balance, network.TokenDecimals), balance)
}

func printEvent(w io.Writer, network *genesis.Network, ev *logdb.Event) {
	line := fmt.Sprintf("%8d %3d %-11s", ev.Slot, ev.Index, ev.Name)
	if ev.User != nil {
		line += " " + ev.User.String()
	}
	if ev.Amount != nil {
		line += " " + token.FormatAmount(*ev.Amount, network.TokenDecimals)
	}
	fmt.Fprintln(w, line)
}

// dumpRecord prints a raw record followed by its decoded form when the layout is known.
func dumpRecord(w io.Writer, network *genesis.Network, addr ledger.Address, rec *state.Account) {
	fmt.Fprintf(w, "Address [ %v ]\n", addr)
	dumper.Fdump(w, rec)

	var decoded any
	switch rec.Owner {
	case network.ProgramID:
		if gs, err := staking.DecodeGlobalState(rec.Data); err == nil {
			decoded = gs
		} else if us, err := staking.DecodeUserStake(rec.Data); err == nil {
			decoded = us
		}
	case token.ProgramID:
		if acc, err := token.ParseAccount(rec); err == nil {
			decoded = acc
		} else if mint, err := token.ParseMint(rec); err == nil {
			decoded = mint
		}
	}
	if decoded != nil {
		dumper.Fdump(w, decoded)
	}
}
