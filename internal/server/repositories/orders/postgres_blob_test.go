package orders

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"orderstore/internal/common"
	"orderstore/internal/server/models"
)

func newBlobRepoWithMock(t *testing.T) (*PostgresBlobRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresBlobRepository(db, "orders"), mock, db
}

func TestBlobCreate_PlaceholderBlobAccepted(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO "orders" \(order_id, description, order_blob\)`).
		WithArgs("o1", "Default Description", []byte{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Order{
		OrderID:     "o1",
		Description: "Default Description",
		Blob:        []byte{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBlobCreate_NilBlobIsValidationError(t *testing.T) {
	repo, _, db := newBlobRepoWithMock(t)
	defer db.Close()

	err := repo.Create(context.Background(), &models.Order{OrderID: "o1", Description: "d"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestBlobGetByID_DoesNotSelectBlobColumn(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT order_id, description FROM "orders" WHERE order_id = \$1`).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "description"}).
			AddRow("o1", "d"))

	order, err := repo.GetByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Blob != nil {
		t.Fatalf("blob must not be loaded on plain reads")
	}
}

func TestBlobUpdate_TouchesDescriptionOnly(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE "orders" SET description = \$1 WHERE order_id = \$2`).
		WithArgs("new", "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Order{OrderID: "o1", Description: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBlob_RoundTrip(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	content := []byte{0x89, 'P', 'N', 'G'}

	mock.ExpectQuery(`SELECT order_blob FROM "orders" WHERE order_id = \$1`).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"order_blob"}).AddRow(content))

	blob, err := repo.GetBlob(context.Background(), "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(blob, content) {
		t.Fatalf("blob mismatch: %v", blob)
	}
}

func TestGetBlob_NotFound(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT order_blob FROM "orders"`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBlob(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateBlob(t *testing.T) {
	repo, mock, db := newBlobRepoWithMock(t)
	defer db.Close()

	content := []byte("raw bytes")

	mock.ExpectExec(`UPDATE "orders" SET order_blob = \$1 WHERE order_id = \$2`).
		WithArgs(content, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateBlob(context.Background(), "o1", content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateBlob_NilBlobIsValidationError(t *testing.T) {
	repo, _, db := newBlobRepoWithMock(t)
	defer db.Close()

	if err := repo.UpdateBlob(context.Background(), "o1", nil); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
