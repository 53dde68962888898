package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines file storage operations for public assets (avatars)
type Storage interface {
	// Save stores a file under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a file by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for the key
	URL(key string) string

	// KeyFromURL reverses URL for files owned by this storage
	KeyFromURL(url string) (string, bool)
}

// Config holds storage configuration
type Config struct {
	Type         string // local, s3
	BasePath     string // local: directory, s3: key prefix
	BaseURL      string // public URL base
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // MinIO, R2 or any S3-compatible endpoint
	UsePathStyle bool
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
