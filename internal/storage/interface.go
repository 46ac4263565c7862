package storage

import (
	"context"
)

// StorageClient abstracts where the cache object lives: a local file for the
// personal-site deployment, a GCS object when the page is served from a
// bucket. Writes are full overwrites; last writer wins.
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path, creating any parent
	// directories as needed
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)
}
