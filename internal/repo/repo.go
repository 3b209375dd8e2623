// Package repo contains all database access for the gym platform API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here, only SQL and type mapping.
//
// Membership lifecycle operations (freeze, renew, upgrade) are implemented
// as SQL procedures owned by the database layer and invoked elsewhere; the
// importer needs only the row-level operations defined in this package.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Integration tests pass a transaction that is rolled back after
// each test for free isolation.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows so the scan helpers can
// be shared between QueryRow and Query call sites.
type scanner interface {
	Scan(dest ...any) error
}
