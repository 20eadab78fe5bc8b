package api

import (
	"context"

	"orderstore/internal/server/models"
	"orderstore/internal/server/services"
)

// DefaultAssetName is the placeholder object name assigned at creation.
// The object itself does not exist until the client uploads it.
const DefaultAssetName = "image.png"

// UploadIssuer matches services.UploadService.
type UploadIssuer interface {
	IssueUpload(ctx context.Context, objectPath string) (*models.PresignedUpload, error)
}

// AssetRemover matches services.AssetService.
type AssetRemover interface {
	DeleteAsset(ctx context.Context, objectPath string) (services.DeleteOutcome, error)
}

// S3AssetStrategy is the external-reference variant: order rows point at
// objects in the store, clients reach them only through minted access
// material.
type S3AssetStrategy struct {
	minter  services.CredentialMinter
	uploads UploadIssuer
	assets  AssetRemover
}

func NewS3AssetStrategy(minter services.CredentialMinter, uploads UploadIssuer, assets AssetRemover) *S3AssetStrategy {
	return &S3AssetStrategy{minter: minter, uploads: uploads, assets: assets}
}

func (s *S3AssetStrategy) NewOrder(order *models.Order) {
	order.S3Key = DefaultAssetName
}

// AccessForOrders mints one read-only credential spanning every row's
// asset path. Batching the page into a single policy keeps the response to
// one token service round-trip and inside the policy size ceiling, which is
// why list pages are capped small in the first place.
func (s *S3AssetStrategy) AccessForOrders(ctx context.Context, orders []*models.Order) (*models.Asset, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	paths := make([]string, 0, len(orders))
	for _, o := range orders {
		paths = append(paths, services.AssetKey(o.OrderID, o.S3Key))
	}
	return s.minter.Mint(ctx, paths, []string{services.ActionGetObject})
}

// OnOrderDelete removes the backing object. Both Deleted and AlreadyAbsent
// are success; only a real failure propagates.
func (s *S3AssetStrategy) OnOrderDelete(ctx context.Context, order *models.Order) error {
	_, err := s.assets.DeleteAsset(ctx, services.AssetKey(order.OrderID, order.S3Key))
	return err
}

// IssueUploadTicket derives a constrained upload ticket for the order's
// asset path.
func (s *S3AssetStrategy) IssueUploadTicket(ctx context.Context, order *models.Order) (*models.PresignedUpload, error) {
	return s.uploads.IssueUpload(ctx, services.AssetKey(order.OrderID, order.S3Key))
}
