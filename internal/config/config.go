package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Backup
		S3
		GCS
		Dropbox
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	// Database selects the application store. SQLite is the zero-setup
	// default; Postgres is what production (and pg_dump backups) runs on.
	Database struct {
		Driver   DatabaseDriver
		Path     string // sqlite only
		Host     string
		Port     int
		User     string
		Password string
		Name     string
	}

	Backup struct {
		Enabled       bool
		Dir           string
		Schedule      string // Cron format: "0 3 * * *" = daily at 03:00
		Retention     int    // Local artifacts to keep
		DumpCommand   string // pg_dump or a compatible wrapper
		DumpTimeout   time.Duration
		UploadTimeout time.Duration // Per-backend upload deadline
	}

	S3 struct {
		AccessKeyID     string
		SecretAccessKey string
		Region          string
		Bucket          string
		Prefix          string
	}

	GCS struct {
		Bucket          string
		Prefix          string
		CredentialsFile string
	}

	Dropbox struct {
		Token string
		Dir   string
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Maintenance struct {
		Enabled    bool
		Schedule   string // Cron format: "0 * * * *" = hourly
		FineAmount string // Decimal charged once per overdue loan
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", 5432)
	v.SetDefault("database_user", "library")
	v.SetDefault("database_password", "")
	v.SetDefault("database_name", "library")

	// Backup defaults
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_retention", DefaultBackupRetention)
	v.SetDefault("backup_dump_command", "pg_dump")
	v.SetDefault("backup_dump_timeout", "30m")
	v.SetDefault("backup_upload_timeout", "5m")

	// Remote storage defaults (a backend is enabled by presence of its creds)
	v.SetDefault("s3_access_key_id", "")
	v.SetDefault("s3_secret_access_key", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", "backups")
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("gcs_prefix", "backups")
	v.SetDefault("gcs_credentials_file", "")
	v.SetDefault("dropbox_token", "")
	v.SetDefault("dropbox_dir", "/library_backups")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("maintenance_fine_amount", "50.00")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
		},
		Backup: Backup{
			Enabled:       v.GetBool("BACKUP_ENABLED"),
			Dir:           v.GetString("BACKUP_DIR"),
			Schedule:      v.GetString("BACKUP_SCHEDULE"),
			Retention:     v.GetInt("BACKUP_RETENTION"),
			DumpCommand:   v.GetString("BACKUP_DUMP_COMMAND"),
			DumpTimeout:   v.GetDuration("BACKUP_DUMP_TIMEOUT"),
			UploadTimeout: v.GetDuration("BACKUP_UPLOAD_TIMEOUT"),
		},
		S3: S3{
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			Region:          v.GetString("S3_REGION"),
			Bucket:          v.GetString("S3_BUCKET"),
			Prefix:          v.GetString("S3_PREFIX"),
		},
		GCS: GCS{
			Bucket:          v.GetString("GCS_BUCKET"),
			Prefix:          v.GetString("GCS_PREFIX"),
			CredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
		},
		Dropbox: Dropbox{
			Token: v.GetString("DROPBOX_TOKEN"),
			Dir:   v.GetString("DROPBOX_DIR"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			Enabled:    v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:   v.GetString("MAINTENANCE_SCHEDULE"),
			FineAmount: v.GetString("MAINTENANCE_FINE_AMOUNT"),
		},
	}
}
