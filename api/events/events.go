// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/logdb"
)

type Events struct {
	programID ledger.Address
	db        *logdb.LogDB
	limit     uint64
}

func New(programID ledger.Address, db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		programID,
		db,
		logsLimit,
	}
}

// parseFilter builds a filter from the query string.
// Supported parameters: name (repeatable), user, from, to, offset, limit and order.
func (e *Events) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	query := req.URL.Query()
	filter := &logdb.EventFilter{
		Program: &e.programID,
		Names:   query["name"],
		Order:   logdb.ASC,
	}

	if s := query.Get("user"); s != "" {
		user, err := ledger.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "user"))
		}
		filter.User = &user
	}

	switch order := logdb.Order(query.Get("order")); order {
	case "", logdb.ASC:
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, restutil.BadRequest(fmt.Errorf("order: must be %q or %q", logdb.ASC, logdb.DESC))
	}

	from, err := restutil.QueryUint(req, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := restutil.QueryUint(req, "to", math.MaxInt64)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, restutil.BadRequest(errors.New("to must be greater than or equal to from"))
	}
	if from > math.MaxInt64 || to > math.MaxInt64 {
		return nil, restutil.BadRequest(fmt.Errorf("range exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	filter.Range = &logdb.Range{From: from, To: to}

	offset, err := restutil.QueryUint(req, "offset", 0)
	if err != nil {
		return nil, err
	}
	if offset > math.MaxInt64 {
		return nil, restutil.BadRequest(fmt.Errorf("offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	limit, err := restutil.QueryUint(req, "limit", e.limit)
	if err != nil {
		return nil, err
	}
	if limit > e.limit {
		return nil, restutil.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	res := make([]*JSONEvent, len(events))
	for i, ev := range events {
		res[i] = ConvertEvent(e.programID, ev)
	}
	return restutil.WriteJSON(w, res)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking/events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
