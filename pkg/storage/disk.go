// Package storage provides the named disks used for catalog exports and
// file-based imports.
//
// Two drivers are available:
//   - "local"  local filesystem rooted at STORAGE_LOCAL_ROOT (default)
//   - "s3"     S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	storage.Connect(ctx)
//
//	disk, _ := storage.Use("local")
//	disk.Put(ctx, "exports/products.json", data)
//	data, _ := disk.Get(ctx, "exports/products.json")
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when path does not exist on the disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
