// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"encoding/binary"

	"github.com/stakevault/stakevault/ledger"
)

const (
	discriminatorSize = 8

	// GlobalStateSize is the record size of the global state.
	GlobalStateSize = discriminatorSize + 32 + 32 + 32 + 8 + 1 + 1
	// UserStakeSize is the record size of a user stake.
	UserStakeSize = discriminatorSize + 32 + 8 + 1
)

var (
	globalStateDiscriminator = discriminator("account", "State")
	userStakeDiscriminator   = discriminator("account", "UserStake")
)

// discriminator returns the 8 byte type prefix of a record, instruction or event.
func discriminator(namespace, name string) [discriminatorSize]byte {
	h := ledger.Sha256([]byte(namespace + ":" + name))
	var d [discriminatorSize]byte
	copy(d[:], h[:discriminatorSize])
	return d
}

// GlobalState is the singleton program record.
type GlobalState struct {
	TokenMint    ledger.Address
	Owner        ledger.Address
	VaultAccount ledger.Address
	TotalStaked  uint64
	Paused       bool
	Bump         uint8
}

// Encode returns the record layout.
func (s *GlobalState) Encode() []byte {
	b := make([]byte, GlobalStateSize)
	copy(b, globalStateDiscriminator[:])
	off := discriminatorSize
	off += copy(b[off:], s.TokenMint[:])
	off += copy(b[off:], s.Owner[:])
	off += copy(b[off:], s.VaultAccount[:])
	binary.LittleEndian.PutUint64(b[off:], s.TotalStaked)
	off += 8
	if s.Paused {
		b[off] = 1
	}
	b[off+1] = s.Bump
	return b
}

// DecodeGlobalState parses the record layout.
func DecodeGlobalState(b []byte) (*GlobalState, error) {
	if len(b) != GlobalStateSize {
		return nil, ErrAccountDiscriminatorMismatch
	}
	if !bytes.Equal(b[:discriminatorSize], globalStateDiscriminator[:]) {
		return nil, ErrAccountDiscriminatorMismatch
	}
	var s GlobalState
	off := discriminatorSize
	off += copy(s.TokenMint[:], b[off:])
	off += copy(s.Owner[:], b[off:])
	off += copy(s.VaultAccount[:], b[off:])
	s.TotalStaked = binary.LittleEndian.Uint64(b[off:])
	off += 8
	switch b[off] {
	case 0:
	case 1:
		s.Paused = true
	default:
		return nil, ErrAccountDiscriminatorMismatch
	}
	s.Bump = b[off+1]
	return &s, nil
}

// UserStake is the stake record of one participant.
type UserStake struct {
	Owner   ledger.Address
	Balance uint64
	Bump    uint8
}

// Encode returns the record layout.
func (u *UserStake) Encode() []byte {
	b := make([]byte, UserStakeSize)
	copy(b, userStakeDiscriminator[:])
	off := discriminatorSize
	off += copy(b[off:], u.Owner[:])
	binary.LittleEndian.PutUint64(b[off:], u.Balance)
	b[off+8] = u.Bump
	return b
}

// DecodeUserStake parses the record layout.
func DecodeUserStake(b []byte) (*UserStake, error) {
	if len(b) != UserStakeSize {
		return nil, ErrAccountDiscriminatorMismatch
	}
	if !bytes.Equal(b[:discriminatorSize], userStakeDiscriminator[:]) {
		return nil, ErrAccountDiscriminatorMismatch
	}
	var u UserStake
	off := discriminatorSize
	off += copy(u.Owner[:], b[off:])
	u.Balance = binary.LittleEndian.Uint64(b[off:])
	u.Bump = b[off+8]
	return &u, nil
}
