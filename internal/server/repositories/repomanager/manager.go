package repomanager

import (
	"context"
	"database/sql"

	"orderstore/internal/dbx"
	"orderstore/internal/server/repositories/orders"
)

// RepositoryManager vends storage-variant-appropriate repositories bound to
// a caller-supplied DBTX (typically the request's leased connection) and
// exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Orders(db dbx.DBTX) orders.Repository
	Blobs(db dbx.DBTX) orders.BlobRepository
}
