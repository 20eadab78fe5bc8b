// Package orders provides PostgreSQL-backed repositories for order rows in
// both storage variants: external object reference and in-row blob.
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

// PostgresRepository implements order storage for the external-reference
// variant over a dbx.DBTX (*sql.DB, *sql.Tx or *sql.Conn). The table name
// is trusted configuration, never request input.
type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX, table string) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

// Create inserts a new order row. All three fields are required; a missing
// one is a validation error, not a DB error.
func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" || order.Description == "" || order.S3Key == "" {
		return fmt.Errorf("%w: new order does not have required fields", common.ErrValidation)
	}

	query := fmt.Sprintf(
		`INSERT INTO "%s" (order_id, description, s3_prefix) VALUES ($1, $2, $3)`, r.table)

	if _, err := r.db.ExecContext(ctx, query, order.OrderID, order.Description, order.S3Key); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// GetByID returns the order with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := fmt.Sprintf(
		`SELECT order_id, description, s3_prefix FROM "%s" WHERE order_id = $1`, r.table)

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(&order.OrderID, &order.Description, &order.S3Key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return order, nil
}

// List returns at most limit rows starting at offset, ordered by order_id
// ascending for reproducible pagination.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := fmt.Sprintf(
		`SELECT order_id, description, s3_prefix FROM "%s" ORDER BY order_id LIMIT $1 OFFSET $2`, r.table)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		var item models.Order
		if err := rows.Scan(&item.OrderID, &item.Description, &item.S3Key); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return result, nil
}

// Count returns the total number of order rows, independent of any window.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(order_id) FROM "%s"`, r.table)

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return count, nil
}

// Update persists description and asset key for an existing order.
func (r *PostgresRepository) Update(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" || order.Description == "" || order.S3Key == "" {
		return fmt.Errorf("%w: updated order does not have required fields", common.ErrValidation)
	}

	query := fmt.Sprintf(
		`UPDATE "%s" SET description = $1, s3_prefix = $2 WHERE order_id = $3`, r.table)

	if _, err := r.db.ExecContext(ctx, query, order.Description, order.S3Key, order.OrderID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// Delete removes the order row.
func (r *PostgresRepository) Delete(ctx context.Context, orderID string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE order_id = $1`, r.table)

	if _, err := r.db.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}
