// Package storage defines the remote upload targets for backup artifacts.
//
// A backend is enabled purely by the presence of its credentials in the
// configuration; zero configured backends is a valid setup in which
// artifacts stay local.
package storage

import (
	"context"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/storage/providers/dropbox"
	"github.com/abolmasow/electronic-library/internal/storage/providers/gcs"
	"github.com/abolmasow/electronic-library/internal/storage/providers/s3"
)

// Backend is a remote storage target that can receive one local file.
type Backend interface {
	// Name identifies the backend in logs and run summaries.
	Name() string

	// Upload copies the local file to the remote target.
	Upload(ctx context.Context, localPath string) error
}

// FromConfig returns the backends whose credentials are configured.
func FromConfig(cfg *config.Config) []Backend {
	var backends []Backend

	if cfg.S3.AccessKeyID != "" && cfg.S3.Bucket != "" {
		backends = append(backends, s3.NewBackend(cfg.S3))
	}
	if cfg.GCS.Bucket != "" {
		backends = append(backends, gcs.NewBackend(cfg.GCS))
	}
	if cfg.Dropbox.Token != "" {
		backends = append(backends, dropbox.NewBackend(cfg.Dropbox))
	}

	return backends
}
