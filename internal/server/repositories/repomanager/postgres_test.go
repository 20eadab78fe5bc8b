package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"orderstore/internal/server/config"
	"orderstore/internal/server/repositories/orders"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	m := NewPostgresRepositoryManager("orders", config.StorageModeS3)
	var _ RepositoryManager = m
}

func TestOrders_MatchesStorageMode(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager("orders", config.StorageModeS3)
	if _, ok := m.Orders(db).(*orders.PostgresRepository); !ok {
		t.Fatalf("s3 mode must vend the external-reference repository")
	}

	m = NewPostgresRepositoryManager("orders", config.StorageModeBlob)
	if _, ok := m.Orders(db).(*orders.PostgresBlobRepository); !ok {
		t.Fatalf("blob mode must vend the blob repository")
	}

	var _ orders.BlobRepository = m.Blobs(db)
}

func TestRunMigrations_UsesModeDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != config.StorageModeBlob {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager("orders", config.StorageModeBlob)
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager("orders", config.StorageModeS3)
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
