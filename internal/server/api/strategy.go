package api

import (
	"context"

	"orderstore/internal/dbx"
	"orderstore/internal/server/models"
)

// AssetStrategy is the pluggable half of the dispatcher: everything that
// differs between the external-reference and in-row-blob storage variants.
// The dispatcher's state machine stays identical across both.
type AssetStrategy interface {
	// NewOrder fills the variant's default asset field on a freshly
	// minted order. The referenced object (variant A) is not created.
	NewOrder(order *models.Order)

	// AccessForOrders mints access material spanning the given rows'
	// asset paths. Returns nil for an empty page and for variants that
	// need no access material.
	AccessForOrders(ctx context.Context, orders []*models.Order) (*models.Asset, error)

	// OnOrderDelete removes or clears the order's backing asset. Runs
	// before the row delete; "already absent" is success.
	OnOrderDelete(ctx context.Context, order *models.Order) error
}

// UploadTicketIssuer is the optional capability behind the presignedPost
// route (external-reference variant only).
type UploadTicketIssuer interface {
	IssueUploadTicket(ctx context.Context, order *models.Order) (*models.PresignedUpload, error)
}

// BlobAccess is the optional capability behind the blob routes (in-row
// variant only). Calls run on the request's leased connection.
type BlobAccess interface {
	ReadBlob(ctx context.Context, conn dbx.DBTX, orderID string) ([]byte, error)
	WriteBlob(ctx context.Context, conn dbx.DBTX, orderID string, blob []byte) error
}
