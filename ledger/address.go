// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// AddressLength length of address in bytes.
	AddressLength = 32
)

// Address identifies an account on the ledger.
// It's either an ed25519 public key or an address derived by CreateProgramAddress.
type Address [AddressLength]byte

// String implements the stringer interface, in base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// AbbrevString returns abbrev string presentation.
func (a Address) AbbrevString() string {
	s := a.String()
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-6:]
}

// Bytes returns byte slice form of address.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns if address has all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare returns an integer comparing two addresses lexicographically.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress convert base58 presented address into Address type.
func ParseAddress(s string) (Address, error) {
	if len(s) == 0 {
		return Address{}, errors.New("empty address")
	}
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return Address{}, errors.New("invalid base58 string")
	}
	if len(raw) != AddressLength {
		return Address{}, errors.New("invalid length")
	}
	var addr Address
	copy(addr[:], raw)
	return addr, nil
}

// MustParseAddress convert base58 presented address into Address type, panic on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress converts bytes slice into address.
// If b is larger than address length, b will be cropped (from the left).
// If b is smaller than address length, b will be extended (from the left).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}
