// Package textx contains small free-text normalization helpers.
package textx

import "unicode/utf8"

// Bounds applied to order descriptions.
const (
	MaxDescriptionLength = 30
	TrimSuffix           = "(TRIM)"
)

// TrimDescription bounds a description to MaxDescriptionLength characters.
// Inputs that fit are returned unchanged; longer inputs are cut and marked
// with TrimSuffix so the loss is visible to the client. Lengths are counted
// in characters, not bytes, and the cut lands on a character boundary, so
// the result is always valid UTF-8 and never exceeds the limit.
func TrimDescription(description string) string {
	if utf8.RuneCountInString(description) <= MaxDescriptionLength {
		return description
	}
	// TrimSuffix is ASCII, so its byte length is also its character count.
	runes := []rune(description)
	return string(runes[:MaxDescriptionLength-len(TrimSuffix)]) + TrimSuffix
}
