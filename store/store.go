package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for adapter operations.
var (
	ErrNilAdapter = errors.New("store: adapter is nil")
	ErrNilClient  = errors.New("store: client is nil")
	ErrInvalidKey = errors.New("store: key is invalid")
	ErrKeyTooLong = errors.New("store: key exceeds max length")
)

// Adapter is the pluggable key/value backend consumed by the cache engine.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Misses: Get returns (nil, false, nil) when the key is absent. A non-nil
//   error signals a backend failure, never a miss.
// - TTL: ttlHint is advisory. Backends with native expiry may apply it; the
//   engine still owns authoritative expiry through its own timers.
type Adapter interface {
	// Get retrieves a stored value. ok reports whether the key was present.
	Get(ctx context.Context, key string) (value any, ok bool, err error)

	// Set stores a value. ttlHint <= 0 means no backend-side expiry.
	Set(ctx context.Context, key string, value any, ttlHint time.Duration) error

	// Destroy removes a stored value. Idempotent - no error on miss.
	Destroy(ctx context.Context, key string) error

	// ID reports an identity string for diagnostics.
	ID() string
}

// ValidateKey checks if a key is valid for storage.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
