// Package blob provides the key/value document storage behind the form
// store. Keys are flat names; each backend maps them to files or objects.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// Store is the minimal document store used by the form module.
// Get returns an error wrapping sentinel.ErrNotFound for missing keys.
type Store interface {
	// Put writes data at key, replacing any previous content.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the content stored at key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether key holds content.
	Exists(ctx context.Context, key string) (bool, error)
	// Driver returns the configured backend driver.
	Driver() Driver
}

// ErrInvalidKey is returned for keys that could escape the store root.
var ErrInvalidKey = errors.New("blob: invalid key")

// validateKey rejects empty keys, path separators and traversal.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
