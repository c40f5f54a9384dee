// Package dropbox uploads backup artifacts via the Dropbox content API.
package dropbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/abolmasow/electronic-library/internal/config"
)

const contentURL = "https://content.dropboxapi.com/2"

// Backend implements storage.Backend against Dropbox.
type Backend struct {
	token      string
	dir        string
	httpClient *http.Client
}

// NewBackend creates a Dropbox backend using a long-lived access token.
func NewBackend(cfg config.Dropbox) *Backend {
	return &Backend{
		token: cfg.Token,
		dir:   cfg.Dir,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (b *Backend) Name() string { return "dropbox" }

// Upload sends the local file to <dir>/<basename>, overwriting any
// previous upload of the same name.
func (b *Backend) Upload(ctx context.Context, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	remotePath := path.Join(b.dir, filepath.Base(localPath))
	uploadArg := map[string]any{
		"path":            remotePath,
		"mode":            "overwrite",
		"autorename":      false,
		"mute":            true,
		"strict_conflict": false,
	}
	uploadArgBytes, err := json.Marshal(uploadArg)
	if err != nil {
		return fmt.Errorf("failed to marshal upload arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, contentURL+"/files/upload", file)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Dropbox-API-Arg", string(uploadArgBytes))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", remotePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dropbox API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
