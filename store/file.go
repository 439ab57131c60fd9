package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File is a file system adapter. Each key maps to one JSON file under the
// base directory, named by the SHA-256 of the key so arbitrary key strings
// stay file-system safe.
//
// Values must round-trip through encoding/json: a value stored as a struct
// comes back as the generic decoded form (map[string]any, float64, ...).
type File struct {
	baseDir string
}

// fileEntry is the on-disk envelope for a cached value.
type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// NewFile creates a file-backed adapter rooted at baseDir, creating the
// directory if needed.
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("store: base directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create base directory: %w", err)
	}
	return &File{baseDir: baseDir}, nil
}

// Get retrieves a value. A missing or expired file is a normal miss; any
// other read or decode failure is a backend error.
func (f *File) Get(_ context.Context, key string) (any, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: failed to read cache file: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("store: failed to decode cache file: %w", err)
	}

	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		// Expired - remove lazily, best effort
		_ = os.Remove(f.path(key))
		return nil, false, nil
	}

	var value any
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		return nil, false, fmt.Errorf("store: failed to decode cached value: %w", err)
	}
	return value, true, nil
}

// Set stores a value, replacing any previous file for the key.
func (f *File) Set(_ context.Context, key string, value any, ttlHint time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: failed to encode cached value: %w", err)
	}

	entry := fileEntry{
		Value:    raw,
		StoredAt: time.Now(),
	}
	if ttlHint > 0 {
		expires := entry.StoredAt.Add(ttlHint)
		entry.ExpiresAt = &expires
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: failed to encode cache file: %w", err)
	}

	if err := os.WriteFile(f.path(key), data, 0o644); err != nil {
		return fmt.Errorf("store: failed to write cache file: %w", err)
	}
	return nil
}

// Destroy removes a value. Idempotent - no error on miss.
func (f *File) Destroy(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: failed to remove cache file: %w", err)
	}
	return nil
}

// ID reports the adapter identity including its root directory.
func (f *File) ID() string {
	return "file:" + f.baseDir
}

// path maps a key to its file location under the base directory.
func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.baseDir, hex.EncodeToString(sum[:])+".json")
}

// Ensure File implements Adapter
var _ Adapter = (*File)(nil)
