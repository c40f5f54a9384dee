package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/shopspring/decimal"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// OverdueMarker flips active loans past their due date to overdue.
type OverdueMarker interface {
	MarkOverdue(now time.Time) ([]entities.Loan, error)
}

// FineIssuer creates fines for overdue loans.
type FineIssuer interface {
	CreateFine(userID, loanID uint, amount decimal.Decimal, reason string) (*entities.Fine, error)
	HasFineForLoan(loanID uint) (bool, error)
}

// MarkOverdueLoansTask marks active loans past their due date as overdue
// and issues an unpaid fine for each newly overdue loan.
type MarkOverdueLoansTask struct {
	FineAmount string `json:"fine_amount"`
}

// Config returns the queue configuration for overdue marking tasks.
func (t MarkOverdueLoansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "mark_overdue_loans",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// MarkOverdueLoansProcessor creates a processor function for MarkOverdueLoansTask.
func MarkOverdueLoansProcessor(loans OverdueMarker, fines FineIssuer) backlite.QueueProcessor[MarkOverdueLoansTask] {
	return func(ctx context.Context, task MarkOverdueLoansTask) error {
		if loans == nil || fines == nil {
			return fmt.Errorf("loan or fine repository not configured")
		}

		amount, err := decimal.NewFromString(task.FineAmount)
		if err != nil {
			return fmt.Errorf("invalid fine amount %q: %w", task.FineAmount, err)
		}

		overdue, err := loans.MarkOverdue(time.Now())
		if err != nil {
			return fmt.Errorf("mark overdue loans: %w", err)
		}

		fined := 0
		for _, loan := range overdue {
			exists, err := fines.HasFineForLoan(loan.ID)
			if err != nil {
				return fmt.Errorf("check fine for loan %d: %w", loan.ID, err)
			}
			if exists {
				continue
			}
			reason := fmt.Sprintf("Loan overdue since %s", loan.DueDate.Format("2006-01-02"))
			if _, err := fines.CreateFine(loan.UserID, loan.ID, amount, reason); err != nil {
				return fmt.Errorf("create fine for loan %d: %w", loan.ID, err)
			}
			fined++
		}

		log.Printf("[TASK] Marked %d loans overdue, issued %d fines", len(overdue), fined)
		return nil
	}
}

// NewMarkOverdueLoansQueue creates a backlite queue for overdue marking tasks.
func NewMarkOverdueLoansQueue(loans OverdueMarker, fines FineIssuer) backlite.Queue {
	return backlite.NewQueue(MarkOverdueLoansProcessor(loans, fines))
}
