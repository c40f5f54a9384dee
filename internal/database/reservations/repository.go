// Package reservations provides database operations for book reservations.
package reservations

import (
	"time"

	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// Repository handles reservation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReservation places a hold on a book for the user.
func (r *Repository) CreateReservation(userID, bookID uint) (*entities.Reservation, error) {
	reservation := &entities.Reservation{
		UserID: userID,
		BookID: bookID,
		Status: entities.ReservationStatusPending,
	}
	if err := r.db.Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// ListReservations returns reservations for a user, newest first.
func (r *Repository) ListReservations(userID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Where("user_id = ?", userID).
		Order("reserved_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// ExpirePending cancels pending and active reservations whose expiry has
// passed, returning the number of reservations cancelled.
func (r *Repository) ExpirePending(now time.Time) (int64, error) {
	result := r.db.Model(&entities.Reservation{}).
		Where("status IN ? AND expires_at < ?",
			[]entities.ReservationStatus{entities.ReservationStatusPending, entities.ReservationStatusActive},
			now).
		Update("status", entities.ReservationStatusCancelled)
	return result.RowsAffected, result.Error
}
