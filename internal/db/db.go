package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// ErrDatabaseMissing is returned when the event database file does not exist.
var ErrDatabaseMissing = errors.New("event database not found")

// MemoryPath opens a private in-memory database with the event schema.
const MemoryPath = ":memory:"

// OpenDB opens the ActivityWatch SQLite database at path read-only.
// The watcher server keeps writing to it, so the connection never takes a
// write lock and waits on a busy database instead of failing.
// MemoryPath returns a writable in-memory database with the schema
// applied, for fixtures.
func OpenDB(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return openMemory()
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, path)
		}
		return nil, fmt.Errorf("checking database file: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func openMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}
