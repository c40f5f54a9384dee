// Package cli implements the one-shot commands exposed by main.go.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/database/backups"
	"github.com/abolmasow/electronic-library/internal/entities"
	"github.com/abolmasow/electronic-library/internal/entrypoint"
)

// BackupCommand runs a single database backup and prints the outcome.
type BackupCommand struct {
	Dir       string
	Retention int
	NoUpload  bool
}

func NewBackupCommand() *BackupCommand {
	return &BackupCommand{}
}

func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	fs.StringVar(&cmd.Dir, "dir", "", "Directory for dump artifacts (default: configured backup dir)")
	fs.IntVar(&cmd.Retention, "keep", 0, "Local artifacts to keep (default: configured retention)")
	fs.BoolVar(&cmd.NoUpload, "no-upload", false, "Skip remote uploads even when backends are configured")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run a single database backup: dump, record, upload and prune.\n\n")
		fmt.Fprintf(os.Stderr, "Connection parameters come from the same environment variables the\n")
		fmt.Fprintf(os.Stderr, "server uses (DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, ...).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *BackupCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.Dir != "" {
		cfg.Backup.Dir = cmd.Dir
	}
	if cmd.Retention > 0 {
		cfg.Backup.Retention = cmd.Retention
	}
	if cmd.NoUpload {
		cfg.S3.Bucket = ""
		cfg.GCS.Bucket = ""
		cfg.Dropbox.Token = ""
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	orchestrator := entrypoint.NewOrchestrator(cfg, backups.NewRepository(db.DB))
	summary := orchestrator.Run(context.Background())

	record := summary.Record
	if record == nil {
		return fmt.Errorf("backup produced no record")
	}

	fmt.Printf("Backup %s: %s\n", record.Status, record.FilePath)
	if record.FileSize != nil {
		fmt.Printf("  size: %d bytes\n", *record.FileSize)
	}
	if record.DurationSeconds != nil {
		fmt.Printf("  duration: %ds\n", *record.DurationSeconds)
	}
	for _, upload := range summary.Uploads {
		if upload.Err != nil {
			fmt.Printf("  upload %s: FAILED (%v)\n", upload.Backend, upload.Err)
		} else {
			fmt.Printf("  upload %s: ok\n", upload.Backend)
		}
	}
	if len(summary.Cleanup.Removed) > 0 {
		fmt.Printf("  pruned %d old artifacts\n", len(summary.Cleanup.Removed))
	}
	if summary.Cleanup.Err != nil {
		fmt.Printf("  cleanup: %v\n", summary.Cleanup.Err)
	}

	if record.Status == entities.BackupStatusError {
		return fmt.Errorf("backup failed: %s", record.ErrorMessage)
	}
	return nil
}
