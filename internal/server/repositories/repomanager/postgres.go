// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"orderstore/internal/dbx"
	"orderstore/internal/server/config"
	"orderstore/internal/server/migrations"
	"orderstore/internal/server/repositories/orders"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed order repositories for
// the configured storage mode and table.
type PostgresRepositoryManager struct {
	table string
	mode  string
}

// NewPostgresRepositoryManager constructs a manager for the given orders
// table and storage mode (config.StorageModeS3 or config.StorageModeBlob).
func NewPostgresRepositoryManager(table, mode string) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{table: table, mode: mode}
}

// Orders returns the repository matching the configured storage mode.
func (m *PostgresRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	if m.mode == config.StorageModeBlob {
		return orders.NewPostgresBlobRepository(db, m.table)
	}
	return orders.NewPostgresRepository(db, m.table)
}

// Blobs returns the blob-variant repository regardless of mode; callers
// gate on the configured strategy.
func (m *PostgresRepositoryManager) Blobs(db dbx.DBTX) orders.BlobRepository {
	return orders.NewPostgresBlobRepository(db, m.table)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations for the
// configured storage mode and runs them against the provided connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.mode); err != nil {
		return err
	}
	return nil
}
