// Package models holds the order service's domain types and their wire
// representations.
package models

// Order is a single order row. Exactly one of S3Key or Blob is in use,
// depending on the configured storage mode: external-reference rows carry
// the object key of an asset that may not exist yet, blob rows carry the
// asset bytes in the row itself.
type Order struct {
	OrderID     string `json:"orderId"`
	Description string `json:"description"`

	// S3Key is the object name under the order's prefix ("image.png" by
	// default). The full storage key is orders/<orderId>/<S3Key>.
	S3Key string `json:"s3Prefix,omitempty"`

	// Blob is never serialized with the order; it travels through the
	// dedicated blob operations only.
	Blob []byte `json:"-"`

	// Asset carries per-request access material and is attached on reads
	// in external-reference mode. Never persisted.
	Asset *Asset `json:"asset,omitempty"`
}
