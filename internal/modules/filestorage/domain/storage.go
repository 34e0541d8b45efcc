package domain

import (
	"context"
	"io"
	"time"
)

// BlobStorage abstracts where uploaded files live (S3/MinIO or the
// local filesystem in development).
type BlobStorage interface {
	// Put stores the content under key and returns the public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Remove deletes the object. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// PresignDownload returns a temporary download URL that forces the
	// given filename.
	PresignDownload(ctx context.Context, key, filename string, expiration time.Duration) (string, error)

	// KeyFromURL recovers the storage key from a public URL.
	KeyFromURL(url string) (string, error)
}
