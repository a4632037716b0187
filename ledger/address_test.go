// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	const owner = "65mxnibS4DL2qqL24GpMJqtNxgEzWgnARTMvXv5SePUb"

	addr, err := ParseAddress(owner)
	require.NoError(t, err)
	assert.Equal(t, owner, addr.String())
	assert.False(t, addr.IsZero())

	_, err = ParseAddress("")
	assert.Error(t, err)
	_, err = ParseAddress("0OIl") // not in the base58 alphabet
	assert.Error(t, err)
	_, err = ParseAddress("3yZe7d") // too short
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseAddress("abc") })
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestBytesToAddress(t *testing.T) {
	a := BytesToAddress([]byte{1, 2})
	assert.Equal(t, byte(1), a[30])
	assert.Equal(t, byte(2), a[31])

	long := make([]byte, 40)
	long[39] = 7
	assert.Equal(t, byte(7), BytesToAddress(long)[31])
}

func TestBytes32(t *testing.T) {
	h := Blake2b([]byte("abc"))
	parsed, err := ParseBytes32(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	assert.Equal(t, Blake2b([]byte("a"), []byte("bc")), h)
	assert.NotEqual(t, Sha256([]byte("abc")), h)
	assert.True(t, Bytes32{}.IsZero())
}

func TestKeys(t *testing.T) {
	priv := KeyFromSeed(Sha256([]byte("seed")))
	again := KeyFromSeed(Sha256([]byte("seed")))
	assert.Equal(t, AddressOf(priv), AddressOf(again))

	path := t.TempDir() + "/key"
	require.NoError(t, SaveKey(path, priv))
	loaded, err := LoadKey(path)
	require.NoError(t, err)
	assert.Equal(t, priv, loaded)
}
