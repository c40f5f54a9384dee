// Package backup runs scheduled database backups: it invokes an external
// dump utility, records every attempt, uploads successful artifacts to the
// configured remote backends and prunes old local copies.
//
// The dump step is the only fatal one. Uploads and retention cleanup are
// best-effort: their failures are logged and reported in the run Summary
// but never change the recorded outcome.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abolmasow/electronic-library/internal/entities"
	"github.com/abolmasow/electronic-library/internal/storage"
)

const (
	artifactPrefix     = "backup_"
	artifactExt        = ".sql"
	artifactTimeLayout = "20060102_150405"
)

// Config carries everything one orchestrator needs. It is passed at
// construction so tests and multiple instances can use separate setups.
type Config struct {
	// Dir is where dump artifacts are written.
	Dir string

	// Retention keeps the newest N local artifacts; non-positive disables
	// cleanup entirely.
	Retention int

	// DumpCommand is pg_dump or a compatible wrapper.
	DumpCommand string

	// DumpTimeout bounds the dump subprocess; zero means no limit.
	DumpTimeout time.Duration

	// UploadTimeout bounds each individual backend upload.
	UploadTimeout time.Duration

	// Connection parameters for the dump target. Password never appears
	// on the command line.
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// RecordStore persists backup attempt records.
type RecordStore interface {
	Create(record *entities.BackupRecord) error
	Finalize(record *entities.BackupRecord) error
}

// UploadResult is the outcome of one backend upload attempt.
type UploadResult struct {
	Backend string
	Err     error
}

// CleanupResult is the outcome of the retention pass.
type CleanupResult struct {
	Removed []string
	Err     error
}

// Summary aggregates one run: the persisted record plus the non-fatal
// sub-step results that the record deliberately does not reflect.
type Summary struct {
	Record  *entities.BackupRecord
	Uploads []UploadResult
	Cleanup CleanupResult
}

// Orchestrator executes backup runs. It assumes at most one concurrent
// run; callers serialize invocations.
type Orchestrator struct {
	cfg      Config
	store    RecordStore
	backends []storage.Backend
}

// NewOrchestrator creates a backup orchestrator.
func NewOrchestrator(cfg Config, store RecordStore, backends []storage.Backend) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		backends: backends,
	}
}

// Run performs one complete backup attempt and returns its summary.
// Errors never propagate: every failure mode ends up in the persisted
// record or in the summary.
func (o *Orchestrator) Run(ctx context.Context) Summary {
	startedAt := time.Now()
	artifactPath := filepath.Join(o.cfg.Dir,
		artifactPrefix+startedAt.Format(artifactTimeLayout)+artifactExt)

	record := &entities.BackupRecord{
		FilePath: artifactPath,
		Status:   entities.BackupStatusInProgress,
	}
	if err := o.store.Create(record); err != nil {
		log.Printf("Backup: failed to create backup record: %v", err)
	}
	summary := Summary{Record: record}

	log.Printf("Backup: starting dump to %s", artifactPath)

	if err := os.MkdirAll(o.cfg.Dir, 0755); err != nil {
		o.fail(record, fmt.Errorf("failed to create backup directory: %w", err))
		return summary
	}

	stderr, duration, err := o.dump(ctx, artifactPath)
	if err != nil {
		detail := err.Error()
		if stderr != "" {
			detail = stderr
		}
		o.fail(record, errors.New(detail))
		return summary
	}

	info, err := os.Stat(artifactPath)
	if err != nil {
		o.fail(record, fmt.Errorf("dump succeeded but artifact is missing: %w", err))
		return summary
	}

	size := info.Size()
	seconds := int(duration.Seconds())
	record.FileSize = &size
	record.DurationSeconds = &seconds
	record.Status = entities.BackupStatusSuccess
	if err := o.store.Finalize(record); err != nil {
		log.Printf("Backup: failed to finalize backup record: %v", err)
	}

	log.Printf("Backup: dump completed, %d bytes in %v", size, duration.Round(time.Millisecond))

	summary.Uploads = o.upload(ctx, artifactPath)
	summary.Cleanup = o.cleanup()
	return summary
}

// fail finalizes the record in the error state. Used for every failure
// before and including the dump step.
func (o *Orchestrator) fail(record *entities.BackupRecord, err error) {
	log.Printf("Backup: %v", err)
	record.Status = entities.BackupStatusError
	record.ErrorMessage = err.Error()
	if ferr := o.store.Finalize(record); ferr != nil {
		log.Printf("Backup: failed to finalize backup record: %v", ferr)
	}
}

// dump runs the external dump utility and returns its captured stderr and
// wall-clock duration. The password travels only through the child
// process environment, never through argv.
func (o *Orchestrator) dump(ctx context.Context, outputPath string) (string, time.Duration, error) {
	if o.cfg.DumpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.DumpTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, o.cfg.DumpCommand,
		"-h", o.cfg.Host,
		"-p", strconv.Itoa(o.cfg.Port),
		"-U", o.cfg.User,
		"-d", o.cfg.Database,
		"-f", outputPath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+o.cfg.Password)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	return strings.TrimSpace(stderr.String()), time.Since(start), err
}

// upload pushes the artifact to every configured backend in turn. Each
// attempt is independent: one failure neither aborts the others nor
// affects the recorded outcome.
func (o *Orchestrator) upload(ctx context.Context, artifactPath string) []UploadResult {
	results := make([]UploadResult, 0, len(o.backends))
	for _, backend := range o.backends {
		uploadCtx := ctx
		cancel := context.CancelFunc(func() {})
		if o.cfg.UploadTimeout > 0 {
			uploadCtx, cancel = context.WithTimeout(ctx, o.cfg.UploadTimeout)
		}

		err := backend.Upload(uploadCtx, artifactPath)
		cancel()
		if err != nil {
			log.Printf("Backup: upload to %s failed: %v", backend.Name(), err)
		} else {
			log.Printf("Backup: uploaded %s to %s", filepath.Base(artifactPath), backend.Name())
		}
		results = append(results, UploadResult{Backend: backend.Name(), Err: err})
	}
	return results
}

// cleanup removes local artifacts beyond the retention count, oldest
// first by modification time. Errors are logged, never raised.
func (o *Orchestrator) cleanup() CleanupResult {
	if o.cfg.Retention <= 0 {
		return CleanupResult{}
	}

	entries, err := os.ReadDir(o.cfg.Dir)
	if err != nil {
		log.Printf("Backup: retention scan failed: %v", err)
		return CleanupResult{Err: err}
	}

	type artifact struct {
		path    string
		modTime time.Time
	}
	var artifacts []artifact
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{
			path:    filepath.Join(o.cfg.Dir, name),
			modTime: info.ModTime(),
		})
	}

	if len(artifacts) <= o.cfg.Retention {
		return CleanupResult{}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].modTime.Before(artifacts[j].modTime)
	})

	result := CleanupResult{}
	for _, old := range artifacts[:len(artifacts)-o.cfg.Retention] {
		if err := os.Remove(old.path); err != nil {
			log.Printf("Backup: failed to remove old artifact %s: %v", old.path, err)
			result.Err = err
			continue
		}
		log.Printf("Backup: removed old artifact %s", old.path)
		result.Removed = append(result.Removed, old.path)
	}
	return result
}
