// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/ledger"
)

func TestDiscriminator(t *testing.T) {
	h := sha256.Sum256([]byte("account:State"))
	assert.Equal(t, h[:8], globalStateDiscriminator[:])

	// anchor selector of the stake instruction
	assert.Equal(t, "ceb0ca12c8d1b36c", hex.EncodeToString(selectorStake[:]))
}

func TestGlobalStateLayout(t *testing.T) {
	gs := &GlobalState{
		TokenMint:    ledger.BytesToAddress([]byte("mint")),
		Owner:        ledger.BytesToAddress([]byte("owner")),
		VaultAccount: ledger.BytesToAddress([]byte("vault")),
		TotalStaked:  0x0102030405060708,
		Paused:       true,
		Bump:         254,
	}
	b := gs.Encode()
	require.Len(t, b, 114)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, b[104:112])
	assert.Equal(t, byte(1), b[112])
	assert.Equal(t, byte(254), b[113])

	decoded, err := DecodeGlobalState(b)
	require.NoError(t, err)
	assert.Equal(t, gs, decoded)

	b[112] = 2
	_, err = DecodeGlobalState(b)
	assert.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)

	_, err = DecodeGlobalState(b[:100])
	assert.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)

	// a stake record is not a state record
	_, err = DecodeGlobalState(make([]byte, GlobalStateSize))
	assert.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)
}

func TestUserStakeLayout(t *testing.T) {
	us := &UserStake{Owner: ledger.BytesToAddress([]byte("user")), Balance: 42, Bump: 253}
	b := us.Encode()
	require.Len(t, b, 49)

	decoded, err := DecodeUserStake(b)
	require.NoError(t, err)
	assert.Equal(t, us, decoded)

	copy(b, globalStateDiscriminator[:])
	_, err = DecodeUserStake(b)
	assert.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)
}

func TestDecodeEventMalformed(t *testing.T) {
	data := (&PauseChanged{Timestamp: 1, Slot: 2}).encode(EventPaused)
	name, ev, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, EventPaused, name)
	assert.Equal(t, &PauseChanged{Timestamp: 1, Slot: 2}, ev)

	_, _, err = DecodeEvent(data[:len(data)-1])
	assert.Error(t, err)
	_, _, err = DecodeEvent(append(data, 0))
	assert.Error(t, err)
	_, _, err = DecodeEvent([]byte{1, 2, 3})
	assert.Error(t, err)

	unknown := append([]byte{}, data...)
	unknown[0] ^= 0xff
	_, _, err = DecodeEvent(unknown)
	assert.Error(t, err)
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(ErrContractPaused)
	assert.True(t, ok)
	assert.Equal(t, Code(6000), code)
	assert.Equal(t, "ContractPaused", code.String())

	code, ok = CodeOf(errors.Wrap(ErrUnderflow, "unstake"))
	assert.True(t, ok)
	assert.Equal(t, Code(6010), code)

	_, ok = CodeOf(errors.New("other"))
	assert.False(t, ok)

	assert.Equal(t, Code(3008), CodeInvalidProgramID)
	assert.Equal(t, "InvalidProgramId", CodeInvalidProgramID.String())
	assert.Equal(t, "Code(7)", Code(7).String())
	assert.Equal(t, "staking error 6005 (Unauthorized): Unauthorized: only owner can perform this action", ErrUnauthorized.Error())
	assert.ErrorIs(t, &Error{Code: CodeOverflow}, ErrOverflow)
}
