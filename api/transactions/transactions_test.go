// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/test/testchain"
	"github.com/stakevault/stakevault/tx"
)

var alice = genesis.DevAccounts()[1]

func initTransactionServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	chain, err := testchain.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })
	require.NoError(t, chain.Initialize())

	router := mux.NewRouter()
	New(chain.Node()).Mount(router, "/transactions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func rawOf(t *testing.T, trx *tx.Transaction) *RawTx {
	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	return &RawTx{Raw: data}
}

func stakeIx(chain *testchain.Chain, amount uint64) *tx.Instruction {
	net := chain.Network()
	return staking.NewStakeAccounts(net.ProgramID, alice.Address, net.TokenMint).StakeInstruction(net.ProgramID, amount)
}

func TestSendTransaction(t *testing.T) {
	chain, ts := initTransactionServer(t)

	trx := chain.BuildTx(alice, stakeIx(chain, 25))
	body, code := httpPost(t, ts.URL+"/transactions", rawOf(t, trx))
	require.Equal(t, http.StatusOK, code, string(body))

	var receipt Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, trx.ID(), receipt.TxID)
	assert.Equal(t, uint64(2), receipt.Slot)
	assert.False(t, receipt.Reverted)
	assert.Nil(t, receipt.Failed)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, staking.EventStaked, receipt.Events[0].Name)
	assert.Equal(t, "25", receipt.Events[0].Amount)

	us, err := chain.Node().StakingReader().Stake(alice.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), us.Balance)

	// replay
	_, code = httpPost(t, ts.URL+"/transactions", rawOf(t, trx))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSendRevertedTransaction(t *testing.T) {
	chain, ts := initTransactionServer(t)

	body, code := httpPost(t, ts.URL+"/transactions", rawOf(t, chain.BuildTx(alice, stakeIx(chain, 0))))
	require.Equal(t, http.StatusOK, code, string(body))

	var receipt Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.True(t, receipt.Reverted)
	assert.Empty(t, receipt.Events)
	require.NotNil(t, receipt.Failed)
	assert.Equal(t, uint32(0), receipt.Failed.Index)
	require.NotNil(t, receipt.Failed.Code)
	assert.Equal(t, uint32(staking.CodeZeroAmount), *receipt.Failed.Code)
}

func TestSendInvalidTransaction(t *testing.T) {
	chain, ts := initTransactionServer(t)

	unsigned := new(tx.Builder).Nonce(1).Instruction(stakeIx(chain, 1)).Build()
	_, code := httpPost(t, ts.URL+"/transactions", rawOf(t, unsigned))
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/transactions", &RawTx{Raw: hexutil.Bytes{0x01, 0x02}})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/transactions", map[string]string{"raw": "0x00", "extra": "1"})
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, uint64(1), chain.Node().Slot())
}

func TestSendOversizedTransaction(t *testing.T) {
	chain, err := testchain.New()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.Node()).Mount(router, "/transactions")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 64)
		router.ServeHTTP(w, r)
	}))
	defer ts.Close()

	body, code := httpPost(t, ts.URL+"/transactions", &RawTx{Raw: make(hexutil.Bytes, 128)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, code, string(body))
}
