// Package loader fetches image bytes from the source store into local
// temporary files for extraction.
package loader

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a requested key is absent upstream.
var ErrKeyNotFound = errors.New("key not found in source store")

// ImageLoader is the boundary to the image source store. The processing
// pipeline only needs presence checks and downloads; retry and backoff
// policy belongs to implementations.
type ImageLoader interface {
	// Exists reports whether the key is present in the store.
	Exists(ctx context.Context, key string) (bool, error)

	// Download copies the object's bytes to the destination path.
	// Returns ErrKeyNotFound when the key is absent.
	Download(ctx context.Context, key, dest string) error
}
