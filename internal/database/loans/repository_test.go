package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/entities"
)

// setupTestRepo creates a fresh test database with one user, one book
// and two available copies.
func setupTestRepo(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	user := entities.User{Username: "reader1", Email: "reader1@example.com"}
	require.NoError(t, db.DB.Create(&user).Error)

	book := entities.Book{Title: "Евгений Онегин", ISBN: "9785389077744"}
	require.NoError(t, db.DB.Create(&book).Error)
	for _, inv := range []string{"INV-001", "INV-002"} {
		copy := entities.BookCopy{BookID: book.ID, InventoryNumber: inv}
		require.NoError(t, db.DB.Create(&copy).Error)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), db.DB, cleanup
}

func TestCreateLoanBorrowsCopy(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	due := time.Now().Add(14 * 24 * time.Hour)
	loan, err := repo.CreateLoan(1, 1, due)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusActive, loan.Status)

	var copy entities.BookCopy
	require.NoError(t, db.First(&copy, loan.BookCopyID).Error)
	assert.Equal(t, entities.CopyStatusBorrowed, copy.Status)
}

func TestCreateLoanWithoutAvailableCopies(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	require.NoError(t, db.Model(&entities.BookCopy{}).
		Where("book_id = ?", 1).
		Update("status", entities.CopyStatusLost).Error)

	_, err := repo.CreateLoan(1, 1, time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReturnLoanFreesCopy(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	loan, err := repo.CreateLoan(1, 1, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	returnedAt := time.Now()
	require.NoError(t, repo.ReturnLoan(loan.ID, returnedAt))

	var stored entities.Loan
	require.NoError(t, db.First(&stored, loan.ID).Error)
	assert.Equal(t, entities.LoanStatusReturned, stored.Status)
	require.NotNil(t, stored.ReturnDate)

	var copy entities.BookCopy
	require.NoError(t, db.First(&copy, loan.BookCopyID).Error)
	assert.Equal(t, entities.CopyStatusAvailable, copy.Status)
}

func TestMarkOverdue(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	// One loan already past due, one still current.
	late, err := repo.CreateLoan(1, 1, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	current, err := repo.CreateLoan(1, 1, time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	flipped, err := repo.MarkOverdue(time.Now())
	require.NoError(t, err)
	require.Len(t, flipped, 1)
	assert.Equal(t, late.ID, flipped[0].ID)
	assert.Equal(t, entities.LoanStatusOverdue, flipped[0].Status)

	var storedLate entities.Loan
	require.NoError(t, db.First(&storedLate, late.ID).Error)
	assert.Equal(t, entities.LoanStatusOverdue, storedLate.Status)

	var storedCurrent entities.Loan
	require.NoError(t, db.First(&storedCurrent, current.ID).Error)
	assert.Equal(t, entities.LoanStatusActive, storedCurrent.Status)

	// A second pass finds nothing new.
	flipped, err = repo.MarkOverdue(time.Now())
	require.NoError(t, err)
	assert.Empty(t, flipped)
}

func TestListLoansFiltersByStatus(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	loan, err := repo.CreateLoan(1, 1, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	returned, err := repo.CreateLoan(1, 1, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.ReturnLoan(returned.ID, time.Now()))

	active, err := repo.ListLoans(entities.LoanStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, loan.ID, active[0].ID)
	assert.Equal(t, "reader1", active[0].User.Username)
	assert.Equal(t, "Евгений Онегин", active[0].BookCopy.Book.Title)

	all, err := repo.ListLoans("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
