package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/entities"
)

// setupTestRepo seeds a small catalog: one co-authored novel where both
// author surnames share a prefix, and one unrelated title.
func setupTestRepo(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	arkady := entities.Author{FirstName: "Аркадий", LastName: "Стругацкий"}
	boris := entities.Author{FirstName: "Борис", LastName: "Стругацкий"}
	require.NoError(t, db.DB.Create(&arkady).Error)
	require.NoError(t, db.DB.Create(&boris).Error)

	novel := entities.Book{
		Title:   "Пикник на обочине",
		ISBN:    "9785170800858",
		Authors: []entities.Author{arkady, boris},
	}
	require.NoError(t, db.DB.Create(&novel).Error)

	other := entities.Book{Title: "Go in Action", ISBN: "9781617291784"}
	require.NoError(t, db.DB.Create(&other).Error)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), db.DB, cleanup
}

func TestListBooksSearchByTitle(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	books, total, err := repo.ListBooks(Filter{Search: "Пикник"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "Пикник на обочине", books[0].Title)
	assert.Len(t, books[0].Authors, 2)
}

// A search term matching several authors of the same book must still
// yield that book once, in both the rows and the total.
func TestListBooksSearchByAuthorDeduplicates(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	books, total, err := repo.ListBooks(Filter{Search: "Стругацкий"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "Пикник на обочине", books[0].Title)
}

func TestListBooksSearchNoMatch(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	books, total, err := repo.ListBooks(Filter{Search: "Анна Каренина"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, books)
}

func TestListBooksAuthorFilter(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	books, total, err := repo.ListBooks(Filter{Author: "Стругацкий"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "Пикник на обочине", books[0].Title)
}

func TestListBooksPagination(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	books, total, err := repo.ListBooks(Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, books, 1)
	// Ordered by title; the Cyrillic title sorts after the Latin one.
	assert.Equal(t, "Пикник на обочине", books[0].Title)
}
