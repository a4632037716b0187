// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"errors"

	"filippo.io/edwards25519"
)

const (
	// MaxSeeds is the maximum number of seeds used to derive an address.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var derivedAddressMarker = []byte("ProgramDerivedAddress")

var (
	ErrMaxSeedLengthExceeded = errors.New("seeds exceed maximum length")
	ErrInvalidSeeds          = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump")
)

// IsOnCurve reports whether b is a valid compressed ed25519 point,
// i.e. whether a private key could exist for it.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress derives an address from the given seeds and owning program.
// The derived address is guaranteed to be off the ed25519 curve, so nobody can sign for it
// except the program, through the same seeds.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, ErrMaxSeedLengthExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Address{}, ErrMaxSeedLengthExceeded
		}
	}

	parts := make([][]byte, 0, len(seeds)+2)
	parts = append(parts, seeds...)
	parts = append(parts, programID.Bytes(), derivedAddressMarker)
	h := Sha256(parts...)

	if IsOnCurve(h[:]) {
		return Address{}, ErrInvalidSeeds
	}
	return Address(h), nil
}

// FindProgramAddress searches the canonical bump, starting from 255 downwards, for which
// CreateProgramAddress(seeds ‖ bump) succeeds.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrNoViableBump
}

// MustFindProgramAddress is FindProgramAddress that panics on error.
func MustFindProgramAddress(seeds [][]byte, programID Address) (Address, uint8) {
	addr, bump, err := FindProgramAddress(seeds, programID)
	if err != nil {
		panic(err)
	}
	return addr, bump
}
