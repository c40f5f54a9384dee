// Package backups provides database operations for backup attempt records.
//
// Records are append-only: a run creates one record in the in_progress
// state and finalizes it exactly once. Nothing here deletes rows — the
// table is the audit trail for the backup job.
package backups

import (
	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// Repository handles backup record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new backup records repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new record, normally in the in-progress state.
func (r *Repository) Create(record *entities.BackupRecord) error {
	return r.db.Create(record).Error
}

// Finalize writes the terminal state of a record. The record must have
// been created first; finalizing twice is a programming error upstream.
func (r *Repository) Finalize(record *entities.BackupRecord) error {
	return r.db.Model(&entities.BackupRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"status":           record.Status,
			"file_size":        record.FileSize,
			"error_message":    record.ErrorMessage,
			"duration_seconds": record.DurationSeconds,
		}).Error
}

// List returns backup records, newest first.
func (r *Repository) List(limit int) ([]entities.BackupRecord, error) {
	query := r.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []entities.BackupRecord
	err := query.Find(&records).Error
	return records, err
}
