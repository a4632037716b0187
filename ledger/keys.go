// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// PrivateKey is an ed25519 private key of a ledger identity.
type PrivateKey = ed25519.PrivateKey

// GenerateKey generates a new random key.
func GenerateKey() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	return priv, err
}

// KeyFromSeed derives a key from a 32 bytes seed.
func KeyFromSeed(seed Bytes32) PrivateKey {
	return ed25519.NewKeyFromSeed(seed[:])
}

// AddressOf returns the address of the key's public half.
func AddressOf(priv PrivateKey) Address {
	return BytesToAddress(priv.Public().(ed25519.PublicKey))
}

// SaveKey writes the key seed in hex form to the given file.
func SaveKey(path string, priv PrivateKey) error {
	return os.WriteFile(path, []byte(hexutil.Encode(priv.Seed())), 0o600)
}

// LoadKey loads a key written by SaveKey.
func LoadKey(path string) (PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := hexutil.Decode(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.Wrap(err, "decode key file")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("invalid key length")
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
