package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/entities"
)

func TestNewDatabaseSeedsCategoriesOnce(t *testing.T) {
	dbPath := "./test_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(defaultCategories)), count)
	require.NoError(t, db.Close())

	// A restart against the same file must neither fail nor reseed.
	db, err = NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DB.Model(&entities.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(defaultCategories)), count)
}

func TestNewDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase(config.Database{Driver: "oracle"})
	assert.ErrorContains(t, err, "unknown database driver")
}
