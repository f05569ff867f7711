package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/readease/readease-api/pkg/logger"
	"github.com/readease/readease-api/pkg/storage/minio"
	"github.com/readease/readease-api/pkg/storage/s3"
)

// StorageType selects the object-store backend.
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage holds derived artifacts (synthesized audio, uploaded images)
// and hands out shareable URLs for them.
type Storage interface {
	// Store writes the object and returns its key.
	Store(ctx context.Context, reader io.Reader, key, contentType string) (string, error)
	// Get retrieves an object by key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object.
	Delete(ctx context.Context, key string) error
	// PublicURL returns a URL a client can fetch the object from.
	PublicURL(ctx context.Context, key string) (string, error)
	// CleanupBefore removes objects last modified before the threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage is the backend factory.
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeS3:
		return s3.GetClient(log)
	case StorageTypeMinio:
		return minio.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
