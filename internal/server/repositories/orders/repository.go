package orders

import (
	"context"

	"orderstore/internal/server/models"
)

// Repository is the order CRUD contract shared by both storage variants.
//
// List returns rows ordered by order_id ascending so pagination is
// reproducible; Count is computed independently of the limit/offset window.
// GetByID returns common.ErrNotFound rather than an empty order.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, orderID string) error
}

// BlobRepository extends Repository with access to the in-row asset bytes
// (blob storage mode only).
type BlobRepository interface {
	Repository
	GetBlob(ctx context.Context, orderID string) ([]byte, error)
	UpdateBlob(ctx context.Context, orderID string, blob []byte) error
}
