// Package storage keeps uploaded media (profile pictures, product images).
//
// Two drivers are available:
//   - "local":  local filesystem, served by the app under STORAGE_URL
//   - "s3":     S3-compatible object storage (AWS S3, MinIO, R2)
//
// Quick start:
//
//	disk, err := storage.FromConfig(ctx)
//	name, err := storage.SaveUpload(ctx, disk, "profiles", fileHeader)
//	url := disk.URL(name)
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/backoffice/config"
)

// Disk is the driver interface every backend implements.
type Disk interface {
	// Put writes r to name, creating parent directories as needed.
	Put(ctx context.Context, name string, r io.Reader) error

	// Exists reports whether name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes name. Returns nil if it did not exist.
	Delete(ctx context.Context, name string) error

	// URL returns the public URL for name.
	URL(name string) string
}

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("storage: unsupported file type")

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// FromConfig builds the STORAGE_DISK driver ("local" by default).
func FromConfig(ctx context.Context) (Disk, error) {
	switch driver := config.StorageDefault(); driver {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unsupported STORAGE_DISK %q (supported: local, s3)", driver)
	}
}

// SaveUpload stores an uploaded image under dir/<uuid><ext> and returns the
// stored name.
func SaveUpload(ctx context.Context, disk Disk, dir string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(path.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", ErrUnsupportedType
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	name := path.Join(dir, uuid.NewString()+ext)
	if err := disk.Put(ctx, name, f); err != nil {
		return "", err
	}
	return name, nil
}

// cleanName rejects absolute and parent-relative names.
func cleanName(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("storage: invalid name %q", name)
	}
	return clean, nil
}
