package repository

import (
	"context"
	"io"
	"time"
)

// AssetStore persists uploaded model files and mints time-limited download
// links. Implemented on Google Cloud Storage; tests use an in-memory fake.
type AssetStore interface {
	// Put writes the file and returns the storage key. Nothing may be
	// persisted about the model unless Put succeeded first.
	Put(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (string, error)
	// SignedURL returns a time-bounded retrieval URL for a stored key.
	// Failure to sign is non-fatal for listings; callers treat an error as
	// "no link available".
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
