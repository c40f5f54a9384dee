package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReservationExpirer cancels reservations that have passed their expiry time.
type ReservationExpirer interface {
	ExpirePending(now time.Time) (int64, error)
}

// ExpireReservationsTask cancels reservations whose hold window has lapsed.
type ExpireReservationsTask struct{}

// Config returns the queue configuration for reservation expiry tasks.
func (t ExpireReservationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "expire_reservations",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExpireReservationsProcessor creates a processor function for ExpireReservationsTask.
func ExpireReservationsProcessor(reservations ReservationExpirer) backlite.QueueProcessor[ExpireReservationsTask] {
	return func(ctx context.Context, task ExpireReservationsTask) error {
		if reservations == nil {
			return fmt.Errorf("reservation repository not configured")
		}

		expired, err := reservations.ExpirePending(time.Now())
		if err != nil {
			return fmt.Errorf("expire reservations: %w", err)
		}

		log.Printf("[TASK] Cancelled %d expired reservations", expired)
		return nil
	}
}

// NewExpireReservationsQueue creates a backlite queue for reservation expiry tasks.
func NewExpireReservationsQueue(reservations ReservationExpirer) backlite.Queue {
	return backlite.NewQueue(ExpireReservationsProcessor(reservations))
}
