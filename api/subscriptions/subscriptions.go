// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/node"
	"github.com/stakevault/stakevault/tx"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// receipts buffered per connection before the node waits on it
	receiptBuffer = 64
)

type Subscriptions struct {
	node     *node.Node
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(n *node.Node, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		node: n,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		done: make(chan struct{}),
	}
}

type eventFilter struct {
	names []string
	user  *ledger.Address
}

func (f *eventFilter) match(ev *events.JSONEvent) bool {
	if len(f.names) > 0 && !slices.Contains(f.names, ev.Name) {
		return false
	}
	if f.user != nil && (ev.User == nil || *ev.User != *f.user) {
		return false
	}
	return true
}

func parseEventFilter(req *http.Request) (*eventFilter, error) {
	query := req.URL.Query()
	filter := &eventFilter{names: query["name"]}
	if s := query.Get("user"); s != "" {
		user, err := ledger.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "user"))
		}
		filter.user = &user
	}
	return filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}

	// subscribe before the handshake completes so that no receipt after it is missed
	receipts := make(chan *tx.Receipt, receiptBuffer)
	sub := s.node.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(conn, sub, receipts, filter); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

// pipe forwards matching events to conn until the peer leaves or the server closes.
func (s *Subscriptions) pipe(conn *websocket.Conn, sub event.Subscription, receipts <-chan *tx.Receipt, filter *eventFilter) error {
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	programID := s.node.Network().ProgramID
	for {
		select {
		case receipt := <-receipts:
			if receipt.Reverted {
				continue
			}
			for i, ev := range receipt.Events {
				if ev.Program != programID {
					continue
				}
				msg := events.ConvertEvent(programID, logdb.NewEvent(receipt, uint32(i), ev))
				if !filter.match(msg) {
					continue
				}
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteJSON(msg); err != nil {
					return err
				}
			}
		case err := <-sub.Err():
			if err != nil {
				msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
				conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			}
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		}
	}
}

// Close terminates all live subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
