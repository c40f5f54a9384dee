// Package loans provides database operations for book lending.
package loans

import (
	"time"

	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// Repository handles loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListLoans returns loans with user and book relations preloaded,
// optionally filtered by status.
func (r *Repository) ListLoans(status entities.LoanStatus) ([]entities.Loan, error) {
	query := r.db.
		Preload("User").
		Preload("BookCopy").
		Preload("BookCopy.Book").
		Order("loan_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var loans []entities.Loan
	err := query.Find(&loans).Error
	return loans, err
}

// CreateLoan issues an available copy of the book to the user. The copy
// moves to the borrowed state in the same transaction.
func (r *Repository) CreateLoan(userID, bookID uint, dueDate time.Time) (*entities.Loan, error) {
	var loan *entities.Loan
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var copy entities.BookCopy
		err := tx.Where("book_id = ? AND status = ?", bookID, entities.CopyStatusAvailable).
			First(&copy).Error
		if err != nil {
			return err
		}

		loan = &entities.Loan{
			UserID:     userID,
			BookCopyID: copy.ID,
			DueDate:    dueDate,
			Status:     entities.LoanStatusActive,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		copy.Status = entities.CopyStatusBorrowed
		return tx.Save(&copy).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ReturnLoan records the return and frees the copy.
func (r *Repository) ReturnLoan(loanID uint, returnedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		if err := tx.First(&loan, loanID).Error; err != nil {
			return err
		}

		loan.ReturnDate = &returnedAt
		loan.Status = entities.LoanStatusReturned
		if err := tx.Save(&loan).Error; err != nil {
			return err
		}

		return tx.Model(&entities.BookCopy{}).
			Where("id = ?", loan.BookCopyID).
			Update("status", entities.CopyStatusAvailable).Error
	})
}

// MarkOverdue flips active loans whose due date has passed and returns
// the loans that changed state on this call.
func (r *Repository) MarkOverdue(now time.Time) ([]entities.Loan, error) {
	var overdue []entities.Loan
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("status = ? AND due_date < ?", entities.LoanStatusActive, now).
			Find(&overdue).Error
		if err != nil {
			return err
		}
		if len(overdue) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(overdue))
		for _, loan := range overdue {
			ids = append(ids, loan.ID)
		}
		return tx.Model(&entities.Loan{}).
			Where("id IN ?", ids).
			Update("status", entities.LoanStatusOverdue).Error
	})
	if err != nil {
		return nil, err
	}
	for i := range overdue {
		overdue[i].Status = entities.LoanStatusOverdue
	}
	return overdue, nil
}

// CountLoans counts loans, optionally filtered by status.
func (r *Repository) CountLoans(status entities.LoanStatus) (int64, error) {
	query := r.db.Model(&entities.Loan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
