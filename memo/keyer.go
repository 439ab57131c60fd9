package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives storage keys from a definition name and an argument tuple.
//
// Contract:
// - Determinism: identical (name, args) tuples must produce identical keys.
// - Distinctness: different tuples under one name must not collide, and
//   argument order is significant.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a storage key for the tuple.
	Key(name string, args []any) (string, error)
}

// DefaultKeyer generates SHA-256 based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic storage key.
// Format: memo:<name> for an empty tuple, memo:<name>:<hash> otherwise,
// where hash is the first 16 hex characters of SHA-256 over the JSON
// encoding of the argument array. encoding/json sorts map keys, so tuples
// containing maps still encode deterministically.
func (k *DefaultKeyer) Key(name string, args []any) (string, error) {
	if len(args) == 0 {
		return "memo:" + name, nil
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("memo: failed to encode key arguments: %w", err)
	}

	hash := sha256.Sum256(encoded)
	hashStr := hex.EncodeToString(hash[:8]) // First 8 bytes = 16 hex chars

	return fmt.Sprintf("memo:%s:%s", name, hashStr), nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
