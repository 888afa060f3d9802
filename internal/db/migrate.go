package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotEventDatabase is returned when the file is SQLite but lacks the
// watcher tables.
var ErrNotEventDatabase = errors.New("not an activity event database")

// EnsureSchema creates the watcher server tables if they are missing.
// The layout mirrors what aw-server writes; worklog itself never writes
// to a real event database.
func EnsureSchema(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

func checkSchema(db *sql.DB) error {
	for _, table := range []string{"buckets", "events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: missing table %s", ErrNotEventDatabase, table)
		}
		if err != nil {
			return fmt.Errorf("inspecting schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS buckets (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT UNIQUE NOT NULL,
		type     TEXT NOT NULL,
		client   TEXT NOT NULL DEFAULT '',
		hostname TEXT NOT NULL DEFAULT '',
		created  TEXT NOT NULL DEFAULT '',
		data     TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		bucketrow INTEGER NOT NULL REFERENCES buckets(id),
		starttime INTEGER NOT NULL,
		endtime   INTEGER NOT NULL,
		data      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS events_bucketrow_index ON events(bucketrow)`,
	`CREATE INDEX IF NOT EXISTS events_starttime_index ON events(starttime)`,
	`CREATE INDEX IF NOT EXISTS events_endtime_index ON events(endtime)`,
}
