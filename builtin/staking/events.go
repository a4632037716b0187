// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
)

// Event names.
const (
	EventInitialized = "Initialized"
	EventStaked      = "Staked"
	EventUnstaked    = "Unstaked"
	EventPaused      = "Paused"
	EventUnpaused    = "Unpaused"
)

var errMalformedEvent = errors.New("malformed event")

// Initialized is emitted once the program is initialized.
type Initialized struct {
	Owner          ledger.Address
	TokenMint      ledger.Address
	VaultAuthority ledger.Address
	VaultAccount   ledger.Address
	Timestamp      int64
	Slot           uint64
}

// StakeChanged is the payload of both Staked and Unstaked.
type StakeChanged struct {
	User             ledger.Address
	Amount           uint64
	BalanceBefore    uint64
	BalanceAfter     uint64
	TotalStakedAfter uint64
	Timestamp        int64
	Slot             uint64
}

// PauseChanged is the payload of both Paused and Unpaused.
type PauseChanged struct {
	Timestamp int64
	Slot      uint64
}

type eventWriter struct {
	bytes.Buffer
}

func newEventWriter(name string) *eventWriter {
	w := &eventWriter{}
	d := discriminator("event", name)
	w.Write(d[:])
	return w
}

func (w *eventWriter) address(a ledger.Address) { w.Write(a[:]) }
func (w *eventWriter) u64(v uint64)             { w.Write(binary.LittleEndian.AppendUint64(nil, v)) }
func (w *eventWriter) i64(v int64)              { w.u64(uint64(v)) }

type eventReader struct {
	b   []byte
	err error
}

func (r *eventReader) take(n int) []byte {
	if r.err != nil || len(r.b) < n {
		r.err = errMalformedEvent
		return make([]byte, n)
	}
	v := r.b[:n]
	r.b = r.b[n:]
	return v
}

func (r *eventReader) address() (a ledger.Address) { copy(a[:], r.take(32)); return }
func (r *eventReader) u64() uint64                 { return binary.LittleEndian.Uint64(r.take(8)) }
func (r *eventReader) i64() int64                  { return int64(r.u64()) }

func (r *eventReader) done() error {
	if r.err == nil && len(r.b) != 0 {
		r.err = errMalformedEvent
	}
	return r.err
}

func (e *Initialized) encode() []byte {
	w := newEventWriter(EventInitialized)
	w.address(e.Owner)
	w.address(e.TokenMint)
	w.address(e.VaultAuthority)
	w.address(e.VaultAccount)
	w.i64(e.Timestamp)
	w.u64(e.Slot)
	return w.Bytes()
}

func (e *StakeChanged) encode(name string) []byte {
	w := newEventWriter(name)
	w.address(e.User)
	w.u64(e.Amount)
	w.u64(e.BalanceBefore)
	w.u64(e.BalanceAfter)
	w.u64(e.TotalStakedAfter)
	w.i64(e.Timestamp)
	w.u64(e.Slot)
	return w.Bytes()
}

func (e *PauseChanged) encode(name string) []byte {
	w := newEventWriter(name)
	w.i64(e.Timestamp)
	w.u64(e.Slot)
	return w.Bytes()
}

// DecodeEvent parses selector prefixed event data.
// It returns the event name and one of *Initialized, *StakeChanged or *PauseChanged.
func DecodeEvent(data []byte) (string, any, error) {
	if len(data) < discriminatorSize {
		return "", nil, errMalformedEvent
	}
	var name string
	for _, n := range []string{EventInitialized, EventStaked, EventUnstaked, EventPaused, EventUnpaused} {
		d := discriminator("event", n)
		if bytes.Equal(data[:discriminatorSize], d[:]) {
			name = n
			break
		}
	}
	r := &eventReader{b: data[discriminatorSize:]}

	var ev any
	switch name {
	case EventInitialized:
		ev = &Initialized{
			Owner:          r.address(),
			TokenMint:      r.address(),
			VaultAuthority: r.address(),
			VaultAccount:   r.address(),
			Timestamp:      r.i64(),
			Slot:           r.u64(),
		}
	case EventStaked, EventUnstaked:
		ev = &StakeChanged{
			User:             r.address(),
			Amount:           r.u64(),
			BalanceBefore:    r.u64(),
			BalanceAfter:     r.u64(),
			TotalStakedAfter: r.u64(),
			Timestamp:        r.i64(),
			Slot:             r.u64(),
		}
	case EventPaused, EventUnpaused:
		ev = &PauseChanged{
			Timestamp: r.i64(),
			Slot:      r.u64(),
		}
	default:
		return "", nil, errors.WithMessage(errMalformedEvent, "unknown selector")
	}
	if err := r.done(); err != nil {
		return "", nil, err
	}
	return name, ev, nil
}
