// Package storage persists uploaded photo files. The upload pipeline only
// sees this interface; whether bytes land on local disk or in S3 is a
// deployment choice made in configuration.
package storage

import (
	"context"
	"fmt"
	"io"

	"inventory-api/internal/config"
)

// PhotoStorage stores and removes photo files by name. Save returns the
// public path the file is reachable at, which is what ends up in the
// photo record. Remove accepts either the bare file name or the public
// path; only the base name identifies the file.
type PhotoStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

// New builds the configured storage driver.
func New(cfg config.UploadConfig) (PhotoStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Dir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}
