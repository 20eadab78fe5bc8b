package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orderstore/internal/common"
	"orderstore/internal/dbx"
	"orderstore/internal/server/models"
)

// PostgresBlobRepository implements order storage for the in-row blob
// variant. Listing and single reads never touch the blob column; bytes move
// only through GetBlob/UpdateBlob.
type PostgresBlobRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresBlobRepository constructs a blob-variant repository bound to
// the given DBTX.
func NewPostgresBlobRepository(db dbx.DBTX, table string) *PostgresBlobRepository {
	return &PostgresBlobRepository{db: db, table: table}
}

// Create inserts a new order row. The blob may be zero-length (the
// creation-time placeholder) but must be non-nil.
func (r *PostgresBlobRepository) Create(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" || order.Description == "" || order.Blob == nil {
		return fmt.Errorf("%w: new order does not have required fields", common.ErrValidation)
	}

	query := fmt.Sprintf(
		`INSERT INTO "%s" (order_id, description, order_blob) VALUES ($1, $2, $3)`, r.table)

	if _, err := r.db.ExecContext(ctx, query, order.OrderID, order.Description, order.Blob); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// GetByID returns the order with the given id, or common.ErrNotFound.
func (r *PostgresBlobRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := fmt.Sprintf(
		`SELECT order_id, description FROM "%s" WHERE order_id = $1`, r.table)

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&order.OrderID, &order.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return order, nil
}

// List returns at most limit rows starting at offset, ordered by order_id.
func (r *PostgresBlobRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := fmt.Sprintf(
		`SELECT order_id, description FROM "%s" ORDER BY order_id LIMIT $1 OFFSET $2`, r.table)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		var item models.Order
		if err := rows.Scan(&item.OrderID, &item.Description); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return result, nil
}

// Count returns the total number of order rows.
func (r *PostgresBlobRepository) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(order_id) FROM "%s"`, r.table)

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return count, nil
}

// Update persists the description; the blob is updated separately.
func (r *PostgresBlobRepository) Update(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" || order.Description == "" {
		return fmt.Errorf("%w: updated order does not have required fields", common.ErrValidation)
	}

	query := fmt.Sprintf(
		`UPDATE "%s" SET description = $1 WHERE order_id = $2`, r.table)

	if _, err := r.db.ExecContext(ctx, query, order.Description, order.OrderID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// Delete removes the order row, blob included.
func (r *PostgresBlobRepository) Delete(ctx context.Context, orderID string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE order_id = $1`, r.table)

	if _, err := r.db.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// GetBlob returns the raw asset bytes, or common.ErrNotFound when the order
// does not exist.
func (r *PostgresBlobRepository) GetBlob(ctx context.Context, orderID string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT order_blob FROM "%s" WHERE order_id = $1`, r.table)

	var blob []byte
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return blob, nil
}

// UpdateBlob replaces the asset bytes for an existing order.
func (r *PostgresBlobRepository) UpdateBlob(ctx context.Context, orderID string, blob []byte) error {
	if orderID == "" || blob == nil {
		return fmt.Errorf("%w: blob update does not have required fields", common.ErrValidation)
	}

	query := fmt.Sprintf(`UPDATE "%s" SET order_blob = $1 WHERE order_id = $2`, r.table)

	if _, err := r.db.ExecContext(ctx, query, blob, orderID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}
