// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/test/datagen"
	"github.com/stakevault/stakevault/test/testchain"
)

func initStakingServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	chain, err := testchain.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	New(chain.Node()).Mount(router, "/staking")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func getState(t *testing.T, ts *httptest.Server) *JSONState {
	body, code := httpGet(t, ts.URL+"/staking/state")
	require.Equal(t, http.StatusOK, code, string(body))
	var state JSONState
	require.NoError(t, json.Unmarshal(body, &state))
	return &state
}

func TestGetState(t *testing.T) {
	chain, ts := initStakingServer(t)
	net := chain.Network()

	state := getState(t, ts)
	assert.False(t, state.Initialized)
	assert.Equal(t, "localnet", state.Network)
	assert.Equal(t, net.ProgramID, state.ProgramID)
	assert.True(t, state.Owner.IsZero())
	stateAddr, _ := staking.StateAddress(net.ProgramID)
	assert.Equal(t, stateAddr, state.StateAccount)

	require.NoError(t, chain.Initialize())
	user := genesis.DevAccounts()[1]
	require.NoError(t, chain.Stake(user, 250))

	state = getState(t, ts)
	assert.True(t, state.Initialized)
	assert.Equal(t, chain.Owner().Address, state.Owner)
	assert.Equal(t, net.TokenMint, state.TokenMint)
	assert.Equal(t, uint8(9), state.TokenDecimals)
	assert.Equal(t, staking.VaultAccount(net.ProgramID, net.TokenMint), state.VaultAccount)
	assert.Equal(t, uint64(250), state.TotalStaked)
	assert.Equal(t, uint64(250), state.VaultBalance)
	assert.False(t, state.Paused)

	require.NoError(t, chain.Pause())
	assert.True(t, getState(t, ts).Paused)
}

func TestGetStake(t *testing.T) {
	chain, ts := initStakingServer(t)
	require.NoError(t, chain.Initialize())

	user := genesis.DevAccounts()[3]
	require.NoError(t, chain.Stake(user, 1_500_000_000))

	body, code := httpGet(t, ts.URL+"/staking/stakes/"+user.Address.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var stake JSONStake
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.True(t, stake.Exists)
	assert.Equal(t, user.Address, stake.User)
	assert.Equal(t, uint64(1_500_000_000), stake.Balance)
	assert.Equal(t, "1.5", stake.Formatted)
	want, _ := staking.UserStakeAddress(chain.Network().ProgramID, user.Address)
	assert.Equal(t, want, stake.StakeAccount)

	// unknown participants get an empty record
	stranger := datagen.RandAddress()
	body, code = httpGet(t, ts.URL+"/staking/stakes/"+stranger.String())
	require.Equal(t, http.StatusOK, code, string(body))
	stake = JSONStake{}
	require.NoError(t, json.Unmarshal(body, &stake))
	assert.False(t, stake.Exists)
	assert.Equal(t, uint64(0), stake.Balance)
	assert.Equal(t, "0", stake.Formatted)

	_, code = httpGet(t, ts.URL+"/staking/stakes/not-an-address")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/staking/stakes/"+ledger.Bytes32{}.String())
	assert.Equal(t, http.StatusBadRequest, code)
}
