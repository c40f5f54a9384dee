// Package entrypoint wires configuration, storage, schedulers and the
// HTTP server together and owns the process lifecycle.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/backup"
	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/database/backups"
	"github.com/abolmasow/electronic-library/internal/database/books"
	"github.com/abolmasow/electronic-library/internal/database/fines"
	"github.com/abolmasow/electronic-library/internal/database/loans"
	"github.com/abolmasow/electronic-library/internal/database/reservations"
	"github.com/abolmasow/electronic-library/internal/database/users"
	http_controllers "github.com/abolmasow/electronic-library/internal/http"
	"github.com/abolmasow/electronic-library/internal/reports"
	"github.com/abolmasow/electronic-library/internal/scheduler"
	"github.com/abolmasow/electronic-library/internal/storage"
	"github.com/abolmasow/electronic-library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop schedulers and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// NewOrchestrator builds the backup orchestrator from configuration.
// Shared between the server and the one-shot backup command.
func NewOrchestrator(cfg *config.Config, store backup.RecordStore) *backup.Orchestrator {
	backends := storage.FromConfig(cfg)
	for _, b := range backends {
		log.Printf("Backup upload backend enabled: %s", b.Name())
	}

	return backup.NewOrchestrator(backup.Config{
		Dir:           cfg.Backup.Dir,
		Retention:     cfg.Backup.Retention,
		DumpCommand:   cfg.Backup.DumpCommand,
		DumpTimeout:   cfg.Backup.DumpTimeout,
		UploadTimeout: cfg.Backup.UploadTimeout,
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.Name,
	}, store, backends)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Electronic Library v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	booksRepo := books.NewRepository(db.DB)
	usersRepo := users.NewRepository(db.DB)
	loansRepo := loans.NewRepository(db.DB)
	reservationsRepo := reservations.NewRepository(db.DB)
	finesRepo := fines.NewRepository(db.DB)
	backupsRepo := backups.NewRepository(db.DB)

	projections := reports.NewProjectionBuilder(booksRepo, usersRepo, loansRepo)

	// Backup scheduler
	var backupScheduler *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		orchestrator := NewOrchestrator(cfg, backupsRepo)
		backupScheduler = scheduler.NewBackupScheduler(orchestrator, cfg.Backup.Schedule)
		if err := backupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start backup scheduler: %v", err)
		}
	} else {
		log.Printf("Backups disabled")
	}

	// Task queue and maintenance scheduler
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var maintenanceScheduler *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewMarkOverdueLoansQueue(loansRepo, finesRepo),
			tasks.NewExpireReservationsQueue(reservationsRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenanceScheduler = scheduler.NewMaintenanceScheduler(
				taskClient, cfg.Maintenance.Schedule, cfg.Maintenance.FineAmount)
			if err := maintenanceScheduler.Start(context.Background()); err != nil {
				log.Fatalf("Failed to start maintenance scheduler: %v", err)
			}
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		Books:       booksRepo,
		Users:       usersRepo,
		Loans:       loansRepo,
		Backups:     backupsRepo,
		Projections: projections,
		Version:     version,
	}
	if backupScheduler != nil {
		routerCfg.BackupRunner = backupScheduler
		routerCfg.BackupHealth = backupScheduler
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenanceScheduler != nil {
			maintenanceScheduler.Stop()
		}
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
