package interfaces

import "context"

// StorageService is the object-storage boundary for one bucket.
type StorageService interface {
	// Exists reports whether an object of exactly this key is already stored.
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
}
