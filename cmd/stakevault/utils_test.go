// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elastic/gosigar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/node"
	"github.com/stakevault/stakevault/state"
)

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1.5", false, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), v)

	v, err = parseAmount("15", true, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), v)

	_, err = parseAmount("", false, 9)
	assert.Error(t, err)
	_, err = parseAmount("1.5", true, 9)
	assert.Error(t, err)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 128, normalizeCacheSize(0))

	var mem gosigar.Mem
	require.NoError(t, mem.Get())
	limit := int(mem.Total / 1024 / 1024 / 2)
	assert.Equal(t, limit, normalizeCacheSize(limit*4))
}

func TestInstanceDir(t *testing.T) {
	local := instanceDir("/data", genesis.Localnet())
	test := instanceDir("/data", genesis.Testnet())
	assert.NotEqual(t, local, test)
	assert.Equal(t, "/data", filepath.Dir(local))
	assert.True(t, strings.HasPrefix(filepath.Base(local), "localnet-"))
}

func TestVerifyState(t *testing.T) {
	net := genesis.Localnet()
	gs := &staking.GlobalState{
		TokenMint:    net.TokenMint,
		Owner:        net.ExpectedOwner,
		VaultAccount: staking.VaultAccount(net.ProgramID, net.TokenMint),
		TotalStaked:  10,
	}
	vault := &token.Account{Amount: 10}
	assert.NoError(t, verifyState(net, gs, vault))

	other := *gs
	other.TokenMint = ledger.Address{1}
	assert.ErrorContains(t, verifyState(net, &other, vault), "token mint mismatch")

	other = *gs
	other.Owner = ledger.Address{1}
	assert.ErrorContains(t, verifyState(net, &other, vault), "owner mismatch")

	assert.ErrorContains(t, verifyState(net, gs, &token.Account{Amount: 9}), "less than the total staked")
}

func TestPrintStake(t *testing.T) {
	net := genesis.Localnet()
	user := genesis.DevAccounts()[1].Address

	var buf bytes.Buffer
	printStake(&buf, net, user, &staking.UserStake{Owner: user, Balance: 2_500_000_000})
	assert.Contains(t, buf.String(), "2.5 (2500000000 base units)")

	buf.Reset()
	printStake(&buf, net, user, nil)
	assert.Contains(t, buf.String(), "never staked")
}

func TestPrintEvent(t *testing.T) {
	net := genesis.Localnet()
	user := genesis.DevAccounts()[1].Address
	amount := uint64(1_000_000_000)

	var buf bytes.Buffer
	printEvent(&buf, net, &logdb.Event{Slot: 3, Index: 0, Name: staking.EventStaked, User: &user, Amount: &amount})
	line := buf.String()
	assert.Contains(t, line, staking.EventStaked)
	assert.Contains(t, line, user.String())
	assert.True(t, strings.HasSuffix(line, " 1\n"))
}

func TestDumpRecord(t *testing.T) {
	net := genesis.Localnet()
	gs := &staking.GlobalState{TokenMint: net.TokenMint, TotalStaked: 77}
	addr, _ := staking.StateAddress(net.ProgramID)

	var buf bytes.Buffer
	dumpRecord(&buf, net, addr, &state.Account{Owner: net.ProgramID, Data: gs.Encode()})
	out := buf.String()
	assert.Contains(t, out, addr.String())
	assert.Contains(t, out, "GlobalState")
	assert.Contains(t, out, "TotalStaked: (uint64) 77")
}

func run(t *testing.T, args ...string) error {
	return newApp().Run(append([]string{"stakevault", "--verbosity", "0"}, args...))
}

func TestCommands(t *testing.T) {
	dataDir := t.TempDir()
	dev := func(i string) []string { return []string{"--data-dir", dataDir, "--dev-account", i} }

	require.Error(t, run(t, append(dev("0"), "state")...), "not initialized yet")
	require.Error(t, run(t, append(dev("1"), "initialize")...), "only the expected owner initializes")
	require.NoError(t, run(t, append(dev("0"), "initialize")...))
	require.NoError(t, run(t, append(dev("0"), "state")...))

	require.NoError(t, run(t, append(dev("1"), "stake", "1.5")...))
	require.NoError(t, run(t, append(dev("1"), "unstake", "--raw", "500000000")...))
	require.NoError(t, run(t, append(dev("0"), "pause")...))
	err := run(t, append(dev("1"), "stake", "1")...)
	assert.ErrorContains(t, err, "code 6000")
	require.NoError(t, run(t, append(dev("0"), "unpause")...))
	require.NoError(t, run(t, append(dev("1"), "stake-of")...))
	require.NoError(t, run(t, append(dev("0"), "events", "--name", staking.EventStaked)...))

	user := genesis.DevAccounts()[1].Address
	stakeAddr, _ := staking.UserStakeAddress(genesis.Localnet().ProgramID, user)
	require.NoError(t, run(t, append(dev("0"), "inspect", stakeAddr.String())...))
	assert.Error(t, run(t, append(dev("0"), "inspect", ledger.Address{9}.String())...))

	// a key file signer and a network file select the same ledger
	keyFile := filepath.Join(t.TempDir(), "signer.key")
	require.NoError(t, run(t, "keygen", "--out", keyFile))
	assert.Error(t, run(t, "keygen", "--out", keyFile), "existing keys are kept")
	networkFile := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, run(t, "genesis", "--out", networkFile))
	require.NoError(t, run(t, "--data-dir", dataDir, "--network-file", networkFile, "--key", keyFile, "stake-of"))
	require.NoError(t, run(t, "--data-dir", dataDir, "--network-file", networkFile, "state"))

	assert.Error(t, run(t, "--data-dir", dataDir, "--network", "testnet", "--dev-account", "0", "stake-of"))

	db, err := kv.Open(filepath.Join(instanceDir(dataDir, genesis.Localnet()), "main.db"), kv.Options{})
	require.NoError(t, err)
	defer db.Close()
	n, err := node.New(db, nil, genesis.Localnet())
	require.NoError(t, err)
	defer n.Close()

	us, err := n.StakingReader().Stake(user)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), us.Balance)
	gs, err := n.StakingReader().State()
	require.NoError(t, err)
	assert.False(t, gs.Paused)
	assert.Equal(t, uint64(1_000_000_000), gs.TotalStaked)
}

func TestRequestBodyLimit(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	defer db.Close()
	n, err := node.New(db, nil, genesis.Localnet())
	require.NoError(t, err)
	defer n.Close()

	handler, closeSubs := api.New(n, api.Options{AllowedOrigins: "*", EnableReqLogger: true, LogsLimit: 100})
	defer closeSubs()
	url, stop, err := startAPIServer("127.0.0.1:0", handler, time.Second)
	require.NoError(t, err)
	defer stop()

	post := func(size int) int {
		body := `{"raw":"0x` + strings.Repeat("00", size) + `"}`
		res, err := http.Post(url+"transactions", "application/json", strings.NewReader(body)) //#nosec G107
		require.NoError(t, err)
		defer res.Body.Close()
		return res.StatusCode
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(maxRequestBodySize))
	assert.Equal(t, http.StatusBadRequest, post(2))
}
