// Package storage keeps uploaded images on the local filesystem or on an
// S3-compatible bucket.
//
// Two drivers are available:
//   - "local": files under UPLOAD_DIR, served back by the API at UPLOAD_URL
//   - "s3":    AWS S3, MinIO, R2 or Spaces, configured through S3_* variables
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"smart-restaurant-api/config"
)

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// Path reverses URL. It reports false for URLs this disk did not issue.
	Path(url string) (string, bool)
}

// New builds the disk named by cfg.StorageDisk.
func New(cfg config.Config) (Disk, error) {
	switch cfg.StorageDisk {
	case "", "local":
		return NewLocalDisk(cfg.UploadDir, cfg.UploadURL)
	case "s3":
		return newS3Disk(context.Background(), cfg.S3)
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", cfg.StorageDisk)
	}
}

func pathFromURL(baseURL, url string) (string, bool) {
	path, ok := strings.CutPrefix(url, baseURL+"/")
	if !ok || path == "" {
		return "", false
	}
	return path, true
}
