// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/node"
	"github.com/stakevault/stakevault/tx"
)

// rejections caused by the tx itself rather than the node
var clientErrors = []error{
	tx.ErrMissingSignature,
	tx.ErrInvalidSignature,
	tx.ErrUnexpectedSigner,
	tx.ErrDuplicateSigner,
	tx.ErrNoInstruction,
	node.ErrDuplicateTx,
}

type Transactions struct {
	node *node.Node
}

func New(n *node.Node) *Transactions {
	return &Transactions{n}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw RawTx
	if err := restutil.ParseJSON(req.Body, &raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return restutil.HTTPError(err, http.StatusRequestEntityTooLarge)
		}
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(raw.Raw, &trx); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "raw"))
	}

	out, err := t.node.Submit(req.Context(), &trx)
	if err != nil {
		for _, ce := range clientErrors {
			if errors.Is(err, ce) {
				return restutil.BadRequest(errors.WithMessage(err, "tx rejected"))
			}
		}
		return err
	}
	return restutil.WriteJSON(w, convertOutput(t.node.Network().ProgramID, out))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleSendTransaction))
}
