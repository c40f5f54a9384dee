// Package gcs uploads backup artifacts to a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/abolmasow/electronic-library/internal/config"
)

// Backend implements storage.Backend over Google Cloud Storage.
type Backend struct {
	cfg config.GCS
}

// NewBackend creates a GCS backend. The client is created per upload so a
// misconfigured credentials file surfaces as an upload failure rather than
// a startup failure (uploads are best-effort).
func NewBackend(cfg config.GCS) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Name() string { return "gcs" }

// Upload writes the local file to <prefix>/<basename> in the bucket.
func (b *Backend) Upload(ctx context.Context, localPath string) error {
	var opts []option.ClientOption
	if b.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(b.cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create gcs client: %w", err)
	}
	defer client.Close()

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	object := path.Join(b.cfg.Prefix, filepath.Base(localPath))
	w := client.Bucket(b.cfg.Bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return fmt.Errorf("gcs upload of %s failed: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs upload of %s failed: %w", object, err)
	}
	return nil
}
