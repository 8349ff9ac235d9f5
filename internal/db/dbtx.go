package db

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql that the repositories use. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code serves one-shot reads
// and the unit of work's transactions alike.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
