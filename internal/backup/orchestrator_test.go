package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/entities"
	"github.com/abolmasow/electronic-library/internal/storage"
)

func backends(bs ...*fakeBackend) []storage.Backend {
	out := make([]storage.Backend, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}

// memoryStore records Create/Finalize calls in memory.
type memoryStore struct {
	created   []*entities.BackupRecord
	finalized []entities.BackupRecord
	nextID    uint
}

func (s *memoryStore) Create(record *entities.BackupRecord) error {
	s.nextID++
	record.ID = s.nextID
	s.created = append(s.created, record)
	return nil
}

func (s *memoryStore) Finalize(record *entities.BackupRecord) error {
	s.finalized = append(s.finalized, *record)
	return nil
}

// fakeBackend records upload attempts and optionally fails them.
type fakeBackend struct {
	name     string
	err      error
	uploaded []string
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Upload(_ context.Context, localPath string) error {
	if b.err != nil {
		return b.err
	}
	b.uploaded = append(b.uploaded, localPath)
	return nil
}

// writeDumpScript creates an executable stand-in for pg_dump that writes
// fixed content to the path given via -f.
func writeDumpScript(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-f" ]; then out="$2"; shift; fi
  shift
done
printf -- '-- PostgreSQL database dump\n-- env PGPASSWORD=%s\n' "$PGPASSWORD" > "$out"
`
	path := filepath.Join(dir, "fake_pg_dump.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

// writeFailingDumpScript creates a stand-in that writes to stderr and
// exits non-zero without producing a file.
func writeFailingDumpScript(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
echo "pg_dump: error: connection to server failed" >&2
exit 1
`
	path := filepath.Join(dir, "failing_pg_dump.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func testConfig(t *testing.T, dumpCommand string) Config {
	t.Helper()
	return Config{
		Dir:         filepath.Join(t.TempDir(), "backups"),
		Retention:   30,
		DumpCommand: dumpCommand,
		DumpTimeout: 30 * time.Second,
		Host:        "localhost",
		Port:        5432,
		User:        "library",
		Password:    "secret",
		Database:    "library",
	}
}

func TestRunSuccess(t *testing.T) {
	scriptDir := t.TempDir()
	cfg := testConfig(t, writeDumpScript(t, scriptDir))
	store := &memoryStore{}

	orchestrator := NewOrchestrator(cfg, store, nil)
	summary := orchestrator.Run(context.Background())

	record := summary.Record
	require.NotNil(t, record)
	assert.Equal(t, entities.BackupStatusSuccess, record.Status)
	assert.Empty(t, record.ErrorMessage)

	require.NotNil(t, record.FileSize)
	assert.Positive(t, *record.FileSize)
	require.NotNil(t, record.DurationSeconds)
	assert.GreaterOrEqual(t, *record.DurationSeconds, 0)

	// Artifact exists on disk under the timestamped name.
	info, err := os.Stat(record.FilePath)
	require.NoError(t, err)
	assert.Equal(t, *record.FileSize, info.Size())

	name := filepath.Base(record.FilePath)
	assert.Regexp(t, `^backup_\d{8}_\d{6}\.sql$`, name)

	// The password reaches the dump process through its environment.
	content, err := os.ReadFile(record.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "PGPASSWORD=secret")

	// One in-progress create, one success finalize.
	require.Len(t, store.created, 1)
	require.Len(t, store.finalized, 1)
	assert.Equal(t, entities.BackupStatusSuccess, store.finalized[0].Status)
}

func TestRunDumpFailure(t *testing.T) {
	scriptDir := t.TempDir()
	cfg := testConfig(t, writeFailingDumpScript(t, scriptDir))
	store := &memoryStore{}
	backend := &fakeBackend{name: "s3"}

	orchestrator := NewOrchestrator(cfg, store, backends(backend))
	summary := orchestrator.Run(context.Background())

	record := summary.Record
	require.NotNil(t, record)
	assert.Equal(t, entities.BackupStatusError, record.Status)
	assert.Contains(t, record.ErrorMessage, "connection to server failed")
	assert.Nil(t, record.FileSize)

	// Exactly one record for the failed run.
	require.Len(t, store.created, 1)
	require.Len(t, store.finalized, 1)
	assert.Equal(t, entities.BackupStatusError, store.finalized[0].Status)

	// No uploads and no cleanup after a failed dump.
	assert.Empty(t, summary.Uploads)
	assert.Empty(t, backend.uploaded)
	assert.Empty(t, summary.Cleanup.Removed)
}

func TestRunRetention(t *testing.T) {
	scriptDir := t.TempDir()
	cfg := testConfig(t, writeDumpScript(t, scriptDir))
	cfg.Retention = 30
	store := &memoryStore{}

	// Pre-populate 35 older artifacts with ascending mod times.
	require.NoError(t, os.MkdirAll(cfg.Dir, 0755))
	base := time.Now().Add(-48 * time.Hour)
	var oldest []string
	for i := 0; i < 35; i++ {
		name := fmt.Sprintf("backup_202401%02d_000000.sql", i+1)
		path := filepath.Join(cfg.Dir, name)
		require.NoError(t, os.WriteFile(path, []byte("old dump"), 0644))
		mt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mt, mt))
		if i < 6 {
			oldest = append(oldest, path)
		}
	}

	orchestrator := NewOrchestrator(cfg, store, nil)
	summary := orchestrator.Run(context.Background())

	require.NotNil(t, summary.Record)
	assert.Equal(t, entities.BackupStatusSuccess, summary.Record.Status)

	// 35 old + 1 new = 36; keep 30, remove the 6 oldest.
	assert.NoError(t, summary.Cleanup.Err)
	assert.Len(t, summary.Cleanup.Removed, 6)
	assert.ElementsMatch(t, oldest, summary.Cleanup.Removed)

	entries, err := os.ReadDir(cfg.Dir)
	require.NoError(t, err)
	remaining := 0
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".sql" {
			remaining++
		}
	}
	assert.Equal(t, 30, remaining)

	// The brand-new artifact survives.
	_, err = os.Stat(summary.Record.FilePath)
	assert.NoError(t, err)
}

func TestRunRetentionDisabled(t *testing.T) {
	scriptDir := t.TempDir()
	cfg := testConfig(t, writeDumpScript(t, scriptDir))
	cfg.Retention = 0
	store := &memoryStore{}

	require.NoError(t, os.MkdirAll(cfg.Dir, 0755))
	for i := 0; i < 3; i++ {
		path := filepath.Join(cfg.Dir, fmt.Sprintf("backup_2024010%d_000000.sql", i+1))
		require.NoError(t, os.WriteFile(path, []byte("old dump"), 0644))
	}

	orchestrator := NewOrchestrator(cfg, store, nil)
	summary := orchestrator.Run(context.Background())

	assert.Empty(t, summary.Cleanup.Removed)

	entries, err := os.ReadDir(cfg.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRunUploadFailureIsNonFatal(t *testing.T) {
	scriptDir := t.TempDir()
	cfg := testConfig(t, writeDumpScript(t, scriptDir))
	cfg.Retention = 1
	store := &memoryStore{}

	failing := &fakeBackend{name: "s3", err: errors.New("access denied")}
	working := &fakeBackend{name: "dropbox"}

	require.NoError(t, os.MkdirAll(cfg.Dir, 0755))
	stale := filepath.Join(cfg.Dir, "backup_20240101_000000.sql")
	require.NoError(t, os.WriteFile(stale, []byte("old dump"), 0644))
	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	orchestrator := NewOrchestrator(cfg, store, backends(failing, working))
	summary := orchestrator.Run(context.Background())

	// Outcome stays success despite the failed upload.
	require.NotNil(t, summary.Record)
	assert.Equal(t, entities.BackupStatusSuccess, summary.Record.Status)

	require.Len(t, summary.Uploads, 2)
	assert.Equal(t, "s3", summary.Uploads[0].Backend)
	assert.ErrorContains(t, summary.Uploads[0].Err, "access denied")
	assert.Equal(t, "dropbox", summary.Uploads[1].Backend)
	assert.NoError(t, summary.Uploads[1].Err)
	assert.Len(t, working.uploaded, 1)

	// Cleanup still runs.
	assert.Equal(t, []string{stale}, summary.Cleanup.Removed)
}

func TestRunDumpTimeout(t *testing.T) {
	scriptDir := t.TempDir()
	script := filepath.Join(scriptDir, "slow_pg_dump.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 10\n"), 0755))

	cfg := testConfig(t, script)
	cfg.DumpTimeout = 100 * time.Millisecond
	store := &memoryStore{}

	orchestrator := NewOrchestrator(cfg, store, nil)
	summary := orchestrator.Run(context.Background())

	require.NotNil(t, summary.Record)
	assert.Equal(t, entities.BackupStatusError, summary.Record.Status)
	assert.NotEmpty(t, summary.Record.ErrorMessage)
}
