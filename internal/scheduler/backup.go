package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abolmasow/electronic-library/internal/backup"
)

// BackupScheduler runs the backup orchestrator on a cron schedule.
//
// Overlap policy: one process runs at most one backup at a time — a tick
// that fires while the previous run is still executing is skipped with a
// log line. Deployments with multiple instances must serialize runs
// externally (e.g. by scheduling on a single instance).
type BackupScheduler struct {
	orchestrator *backup.Orchestrator
	schedule     string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	inFlight   bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance.
func NewBackupScheduler(orchestrator *backup.Orchestrator, schedule string) *BackupScheduler {
	return &BackupScheduler{
		orchestrator: orchestrator,
		schedule:     schedule,
		cron:         newCron(),
	}
}

// Start begins the scheduler.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runBackup(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule)
	log.Printf("Backup scheduler: started with schedule '%s'. Next run: %v", s.schedule, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// RunNow triggers an immediate backup in the background.
func (s *BackupScheduler) RunNow() {
	go s.runBackup(context.Background())
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will fire.
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *BackupScheduler) runBackup(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		log.Printf("Backup scheduler: previous run still in progress, skipping")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	summary := s.orchestrator.Run(ctx)
	logSummary(summary)
}

func logSummary(summary backup.Summary) {
	record := summary.Record
	if record == nil {
		return
	}

	switch {
	case record.Status != "" && record.FileSize != nil:
		log.Printf("Backup scheduler: run finished with status %s (%d bytes, %d uploads, %d old artifacts removed)",
			record.Status, *record.FileSize, len(summary.Uploads), len(summary.Cleanup.Removed))
	default:
		log.Printf("Backup scheduler: run finished with status %s: %s", record.Status, record.ErrorMessage)
	}
}
