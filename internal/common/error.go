// Package common defines shared sentinel errors used across the order
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("order not found")
	ErrStorage  = errors.New("storage error")

	// Validation errors (missing/malformed required input).
	ErrValidation = errors.New("invalid parameters")

	// Credential minting errors (token service call failed; no
	// partially-scoped credential is ever returned alongside one).
	ErrCredentialMint = errors.New("credential mint error")

	// Asset lifecycle errors (unexpected failure removing a backing
	// object, distinct from the tolerated already-absent cases).
	ErrAssetDelete = errors.New("asset delete error")
)
