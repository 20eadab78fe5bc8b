// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by *sql.DB, *sql.Tx and *sql.Conn,
// and a helper to run a unit of work on a leased connection.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// *sql.DB, *sql.Tx and *sql.Conn all satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Leaser acquires dedicated connections from a pool. *sql.DB satisfies it.
type Leaser interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// WithConn leases a single connection from the pool, runs fn with it, and
// returns the connection to the pool on every exit path, including panics.
// Panics are rethrown. A release failure never overrides fn's error.
//
// Typical use:
//
//	err := dbx.WithConn(ctx, db, func(ctx context.Context, conn dbx.DBTX) error {
//	    // every statement of the request runs on the same connection
//	    _, err := conn.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithConn(ctx context.Context, db Leaser, fn func(ctx context.Context, conn DBTX) error) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = conn.Close()
			panic(p)
		}
		_ = conn.Close()
	}()

	err = fn(ctx, conn)
	return err
}
