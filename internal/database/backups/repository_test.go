package backups

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/entities"
)

// setupTestRepo creates a fresh test database
func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func TestCreateAndFinalize(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	record := &entities.BackupRecord{
		FilePath: "/backups/backup_20240101_030000.sql",
		Status:   entities.BackupStatusInProgress,
	}
	require.NoError(t, repo.Create(record))
	assert.NotZero(t, record.ID)
	assert.False(t, record.StartedAt.IsZero())

	size := int64(2048)
	seconds := 4
	record.Status = entities.BackupStatusSuccess
	record.FileSize = &size
	record.DurationSeconds = &seconds
	require.NoError(t, repo.Finalize(record))

	records, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	stored := records[0]
	assert.Equal(t, entities.BackupStatusSuccess, stored.Status)
	require.NotNil(t, stored.FileSize)
	assert.Equal(t, int64(2048), *stored.FileSize)
	require.NotNil(t, stored.DurationSeconds)
	assert.Equal(t, 4, *stored.DurationSeconds)
	assert.Empty(t, stored.ErrorMessage)
}

func TestFinalizeError(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	record := &entities.BackupRecord{
		FilePath: "/backups/backup_20240102_030000.sql",
		Status:   entities.BackupStatusInProgress,
	}
	require.NoError(t, repo.Create(record))

	record.Status = entities.BackupStatusError
	record.ErrorMessage = "pg_dump: error: connection refused"
	require.NoError(t, repo.Finalize(record))

	records, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entities.BackupStatusError, records[0].Status)
	assert.Equal(t, "pg_dump: error: connection refused", records[0].ErrorMessage)
	assert.Nil(t, records[0].FileSize)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		record := &entities.BackupRecord{
			FilePath:  "/backups/dump.sql",
			Status:    entities.BackupStatusSuccess,
			StartedAt: time.Date(2024, 1, i+1, 3, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.Create(record))
	}

	records, err := repo.List(3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].StartedAt.After(records[1].StartedAt))
	assert.True(t, records[1].StartedAt.After(records[2].StartedAt))
}
