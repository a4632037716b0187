// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes emitted events in sqlite for querying.
package logdb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory database lives as long as its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestSlot returns the highest slot with a recorded event, 0 if none.
func (db *LogDB) NewestSlot(ctx context.Context) (uint64, error) {
	var slot sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(slot) FROM event").Scan(&slot); err != nil {
		return 0, err
	}
	return uint64(slot.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEventQuery+" ORDER BY slot ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := selectEventQuery + " WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND slot >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND slot <= ?"
		}
	}
	if filter.Program != nil {
		args = append(args, filter.Program.Bytes())
		stmt += " AND program = ?"
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(", ?", len(filter.Names)-1) + ")"
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}
	if filter.User != nil {
		args = append(args, filter.User.Bytes())
		stmt += " AND user = ?"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY slot DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY slot ASC, eventIndex ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			slot    uint64
			index   uint32
			time    uint64
			txID    []byte
			program []byte
			name    string
			user    []byte
			amount  []byte
			data    []byte
		)
		if err := rows.Scan(
			&slot,
			&index,
			&time,
			&txID,
			&program,
			&name,
			&user,
			&amount,
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Slot:    slot,
			Index:   index,
			Time:    time,
			TxID:    ledger.BytesToBytes32(txID),
			Program: ledger.BytesToAddress(program),
			Name:    name,
			Data:    data,
		}
		if len(user) > 0 {
			u := ledger.BytesToAddress(user)
			event.User = &u
		}
		if len(amount) == 8 {
			a := binary.BigEndian.Uint64(amount)
			event.Amount = &a
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert writes events in one sql transaction.
func (db *LogDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	insert, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	return db.execInTx(func(tx *sql.Tx) error {
		stmt := tx.Stmt(insert)
		for _, ev := range events {
			if _, err := stmt.Exec(
				ev.Slot,
				ev.Index,
				ev.Time,
				ev.TxID.Bytes(),
				ev.Program.Bytes(),
				ev.Name,
				userValue(ev.User),
				amountValue(ev.Amount),
				ev.Data,
			); err != nil {
				return errors.Wrapf(err, "insert event %v/%v", ev.Slot, ev.Index)
			}
		}
		return nil
	})
}

func userValue(user *ledger.Address) []byte {
	if user == nil {
		return nil
	}
	return user.Bytes()
}

// amounts are stored big endian since sqlite integers are signed
func amountValue(amount *uint64) []byte {
	if amount == nil {
		return nil
	}
	return binary.BigEndian.AppendUint64(nil, *amount)
}
