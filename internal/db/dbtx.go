package db

import (
	"context"
	"database/sql"
)

// DBTX is the read surface the event source needs. Taking the interface
// instead of *sql.DB lets a caller pin queries to one connection or a
// snapshot transaction.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = (*sql.Conn)(nil)
)
