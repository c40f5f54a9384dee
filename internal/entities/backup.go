package entities

import "time"

type BackupStatus string

const (
	BackupStatusSuccess    BackupStatus = "success"
	BackupStatusError      BackupStatus = "error"
	BackupStatusInProgress BackupStatus = "in_progress"
)

// BackupRecord is one row per backup attempt. Records are created when a
// run starts and finalized when the dump process exits; they are never
// deleted afterwards so the table doubles as an audit trail.
type BackupRecord struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	StartedAt       time.Time    `gorm:"autoCreateTime;index" json:"started_at"`
	FilePath        string       `gorm:"size:500" json:"file_path"`
	FileSize        *int64       `json:"file_size,omitempty"`
	Status          BackupStatus `gorm:"size:20" json:"status"`
	ErrorMessage    string       `gorm:"type:text" json:"error_message,omitempty"`
	DurationSeconds *int         `json:"duration_seconds,omitempty"`
}

func (BackupRecord) TableName() string { return "backup_records" }
