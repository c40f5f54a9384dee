// Package fines provides database operations for overdue fines.
package fines

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// Repository handles fine database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new fines repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateFine records a fine against a loan.
func (r *Repository) CreateFine(userID, loanID uint, amount decimal.Decimal, reason string) (*entities.Fine, error) {
	fine := &entities.Fine{
		UserID: userID,
		LoanID: loanID,
		Amount: amount,
		Reason: reason,
		Status: entities.FineStatusUnpaid,
	}
	if err := r.db.Create(fine).Error; err != nil {
		return nil, err
	}
	return fine, nil
}

// HasFineForLoan reports whether a fine has already been assessed for the loan.
func (r *Repository) HasFineForLoan(loanID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Fine{}).Where("loan_id = ?", loanID).Count(&count).Error
	return count > 0, err
}

// MarkPaid settles a fine.
func (r *Repository) MarkPaid(fineID uint, paidAt time.Time) error {
	return r.db.Model(&entities.Fine{}).
		Where("id = ?", fineID).
		Updates(map[string]any{
			"status":  entities.FineStatusPaid,
			"paid_at": paidAt,
		}).Error
}

// ListUnpaid returns outstanding fines for a user.
func (r *Repository) ListUnpaid(userID uint) ([]entities.Fine, error) {
	var unpaid []entities.Fine
	err := r.db.Where("user_id = ? AND status = ?", userID, entities.FineStatusUnpaid).
		Order("created_at DESC").
		Find(&unpaid).Error
	return unpaid, err
}
