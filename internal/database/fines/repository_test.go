package fines

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
)

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

func TestCreateFine(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	amount := decimal.RequireFromString("50.00")
	fine, err := repo.CreateFine(1, 7, amount, "Loan overdue since 2024-05-15")
	require.NoError(t, err)

	assert.NotZero(t, fine.ID)
	assert.True(t, fine.Amount.Equal(amount))

	has, err := repo.HasFineForLoan(7)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasFineForLoan(8)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMarkPaid(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	fine, err := repo.CreateFine(1, 7, decimal.RequireFromString("50.00"), "overdue")
	require.NoError(t, err)

	unpaid, err := repo.ListUnpaid(1)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)

	require.NoError(t, repo.MarkPaid(fine.ID, time.Now()))

	unpaid, err = repo.ListUnpaid(1)
	require.NoError(t, err)
	assert.Empty(t, unpaid)
}
