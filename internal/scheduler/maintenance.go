package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/abolmasow/electronic-library/internal/tasks"
)

// TaskEnqueuer enqueues background tasks for asynchronous processing.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// MaintenanceScheduler enqueues the recurring catalog maintenance tasks
// (overdue marking, reservation expiry) on a cron schedule. The heavy
// lifting happens on the task queue so a slow job never blocks a tick.
type MaintenanceScheduler struct {
	enqueuer   TaskEnqueuer
	schedule   string
	fineAmount string

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(enqueuer TaskEnqueuer, schedule, fineAmount string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		enqueuer:   enqueuer,
		schedule:   schedule,
		fineAmount: fineAmount,
		cron:       newCron(),
	}
}

// Start begins the scheduler.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueueMaintenance); err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule)
	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v", s.schedule, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Maintenance scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow enqueues the maintenance tasks immediately.
func (s *MaintenanceScheduler) RunNow() {
	s.enqueueMaintenance()
}

func (s *MaintenanceScheduler) enqueueMaintenance() {
	if _, err := s.enqueuer.Add(tasks.MarkOverdueLoansTask{FineAmount: s.fineAmount}).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue overdue marking: %v", err)
	}
	if _, err := s.enqueuer.Add(tasks.ExpireReservationsTask{}).Save(); err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue reservation expiry: %v", err)
	}
}
