package api

import (
	"context"

	"orderstore/internal/dbx"
	"orderstore/internal/server/models"
	"orderstore/internal/server/repositories/repomanager"
)

// BlobAssetStrategy is the in-row variant: the asset lives in the order row
// itself, so there is no external object and no credential to mint.
type BlobAssetStrategy struct {
	repos repomanager.RepositoryManager
}

func NewBlobAssetStrategy(repos repomanager.RepositoryManager) *BlobAssetStrategy {
	return &BlobAssetStrategy{repos: repos}
}

// NewOrder starts with a zero-length placeholder; creation never includes
// content.
func (s *BlobAssetStrategy) NewOrder(order *models.Order) {
	order.Blob = []byte{}
}

func (s *BlobAssetStrategy) AccessForOrders(ctx context.Context, orders []*models.Order) (*models.Asset, error) {
	return nil, nil
}

// OnOrderDelete is a no-op: deleting the row removes the bytes with it.
func (s *BlobAssetStrategy) OnOrderDelete(ctx context.Context, order *models.Order) error {
	return nil
}

func (s *BlobAssetStrategy) ReadBlob(ctx context.Context, conn dbx.DBTX, orderID string) ([]byte, error) {
	return s.repos.Blobs(conn).GetBlob(ctx, orderID)
}

func (s *BlobAssetStrategy) WriteBlob(ctx context.Context, conn dbx.DBTX, orderID string, blob []byte) error {
	return s.repos.Blobs(conn).UpdateBlob(ctx, orderID, blob)
}
