// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the networks a ledger can be started for.
package genesis

import (
	"bytes"
	"math/bits"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
)

// Network is the deployment configuration of the staking program and its token.
type Network struct {
	Name          string         `yaml:"name"`
	ProgramID     ledger.Address `yaml:"programId"`
	ExpectedOwner ledger.Address `yaml:"expectedOwner"`
	TokenMint     ledger.Address `yaml:"tokenMint"`
	TokenDecimals uint8          `yaml:"tokenDecimals"`
	LaunchTime    uint64         `yaml:"launchTime"`
	Allocations   []Allocation   `yaml:"allocations,omitempty"`
}

// Allocation funds the token account of Owner at genesis.
type Allocation struct {
	Owner  ledger.Address `yaml:"owner"`
	Amount uint64         `yaml:"amount"`
}

// StakingConfig returns the program configuration of the network.
func (n *Network) StakingConfig() staking.Config {
	return staking.Config{
		ProgramID:     n.ProgramID,
		ExpectedOwner: n.ExpectedOwner,
	}
}

// Validate checks the network is usable.
func (n *Network) Validate() error {
	if n.Name == "" {
		return errors.New("name must be set")
	}
	if n.ProgramID.IsZero() {
		return errors.New("programId must be set")
	}
	if n.ExpectedOwner.IsZero() {
		return errors.New("expectedOwner must be set")
	}
	if n.TokenMint.IsZero() {
		return errors.New("tokenMint must be set")
	}
	if n.TokenDecimals > 19 {
		return errors.Errorf("tokenDecimals %d exceeds the u64 range", n.TokenDecimals)
	}
	var supply uint64
	for i, a := range n.Allocations {
		if a.Owner.IsZero() {
			return errors.Errorf("allocation %d: owner must be set", i)
		}
		if a.Amount == 0 {
			return errors.Errorf("%v: amount must be a non-zero integer", a.Owner)
		}
		var carry uint64
		if supply, carry = bits.Add64(supply, a.Amount, 0); carry != 0 {
			return errors.New("total allocation overflows")
		}
	}
	return nil
}

// ID identifies the network content, so a data directory can not be reused for another network.
func (n *Network) ID() ledger.Bytes32 {
	data, err := yaml.Marshal(n)
	if err != nil {
		panic(err)
	}
	return ledger.Blake2b(data)
}

// Build writes the token mint and the allocations into st.
func (n *Network) Build(st *state.State) error {
	if err := n.Validate(); err != nil {
		return err
	}
	seeder := token.NewSeeder(st)
	if err := seeder.Mint(n.TokenMint, n.ExpectedOwner, n.TokenDecimals); err != nil {
		return errors.Wrap(err, "mint")
	}
	for _, a := range n.Allocations {
		if _, err := seeder.Fund(a.Owner, n.TokenMint, a.Amount); err != nil {
			return errors.Wrapf(err, "allocate %v", a.Owner)
		}
	}
	return nil
}

// LoadNetwork reads a custom network from a yaml file.
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var n Network
	if err := dec.Decode(&n); err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	if err := n.Validate(); err != nil {
		return nil, errors.Wrapf(err, "network %v", path)
	}
	return &n, nil
}

// NetworkByName returns a preset network.
func NetworkByName(name string) (*Network, error) {
	switch name {
	case "mainnet":
		return Mainnet(), nil
	case "testnet":
		return Testnet(), nil
	case "localnet":
		return Localnet(), nil
	default:
		return nil, errors.Errorf("unknown network %q", name)
	}
}
