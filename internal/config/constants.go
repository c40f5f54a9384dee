package config

const (
	// DefaultDatabasePath is the default path for the SQLite application database
	DefaultDatabasePath = "./library.db"

	// DefaultBackupDir is where dump artifacts are written before upload
	DefaultBackupDir = "./backups"

	// DefaultBackupRetention is how many local dump artifacts are kept
	DefaultBackupRetention = 30
)
