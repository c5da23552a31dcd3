package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength is the longest node identifier accepted by the importers.
const MaxNodeIDLength = 1024

// ValidateNodeID validates a node identifier read from an external source.
//
// Identifiers are opaque to the layout engine, so the rules are minimal:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for a named numeric field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be finite, got %v", field, v)
	}
	return nil
}

// ValidateRedisURL validates a redis connection URL.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidInput, "redis URL must use redis or rediss scheme")
	}
	return nil
}
