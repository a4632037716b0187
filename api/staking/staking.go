// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/node"
)

type Staking struct {
	node *node.Node
}

func New(n *node.Node) *Staking {
	return &Staking{n}
}

func (s *Staking) handleGetState(w http.ResponseWriter, _ *http.Request) error {
	net := s.node.Network()
	stateAddr, _ := staking.StateAddress(net.ProgramID)
	authority, _ := staking.VaultAuthority(net.ProgramID, net.TokenMint)

	res := &JSONState{
		Network:        net.Name,
		ProgramID:      net.ProgramID,
		StateAccount:   stateAddr,
		TokenMint:      net.TokenMint,
		TokenDecimals:  net.TokenDecimals,
		VaultAuthority: authority,
		VaultAccount:   staking.VaultAccount(net.ProgramID, net.TokenMint),
	}

	gs, err := s.node.StakingReader().State()
	if err != nil {
		return err
	}
	if gs != nil {
		res.Initialized = true
		res.TokenMint = gs.TokenMint
		res.Owner = gs.Owner
		res.VaultAccount = gs.VaultAccount
		res.TotalStaked = gs.TotalStaked
		res.Paused = gs.Paused

		vault, err := s.node.TokenReader().Account(gs.VaultAccount)
		if err != nil {
			return errors.WithMessage(err, "vault")
		}
		res.VaultBalance = vault.Amount
	}
	return restutil.WriteJSON(w, res)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := ledger.ParseAddress(mux.Vars(req)["user"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "user"))
	}
	net := s.node.Network()
	stakeAddr, _ := staking.UserStakeAddress(net.ProgramID, user)

	res := &JSONStake{User: user, StakeAccount: stakeAddr}
	us, err := s.node.StakingReader().Stake(user)
	if err != nil {
		return err
	}
	if us != nil {
		res.Exists = true
		res.Balance = us.Balance
	}
	res.Formatted = token.FormatAmount(res.Balance, net.TokenDecimals)
	return restutil.WriteJSON(w, res)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/state").
		Methods(http.MethodGet).
		Name("GET /staking/state").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetState))
	sub.Path("/stakes/{user}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{user}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
}
