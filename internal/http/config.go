package http

import (
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/database/backups"
	"github.com/abolmasow/electronic-library/internal/database/books"
	"github.com/abolmasow/electronic-library/internal/database/loans"
	"github.com/abolmasow/electronic-library/internal/database/users"
	"github.com/abolmasow/electronic-library/internal/reports"
)

// BackupRunner triggers an immediate backup run in the background.
type BackupRunner interface {
	RunNow()
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	Books       *books.Repository
	Users       *users.Repository
	Loans       *loans.Repository
	Backups     *backups.Repository
	Projections *reports.ProjectionBuilder

	// BackupRunner and BackupHealth may be nil when backups are disabled.
	BackupRunner BackupRunner
	BackupHealth BackupHealth

	Version string
}
