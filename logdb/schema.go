// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	slot INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	time INTEGER NOT NULL,
	txID BLOB NOT NULL,
	program BLOB NOT NULL,
	name TEXT NOT NULL,
	user BLOB,
	amount BLOB,
	data BLOB,
	PRIMARY KEY (slot, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventNameIndex ON event(name);
CREATE INDEX IF NOT EXISTS eventUserIndex ON event(user);
`

const insertEventQuery = "INSERT OR REPLACE INTO event(slot, eventIndex, time, txID, program, name, user, amount, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"

const selectEventQuery = "SELECT slot, eventIndex, time, txID, program, name, user, amount, data FROM event"
