// Package books provides database operations for the book catalog.
package books

import (
	"gorm.io/gorm"

	"github.com/abolmasow/electronic-library/internal/entities"
)

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Search   string // matches title, ISBN or author name
	Category string
	Author   string
	Limit    int
	Offset   int
}

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns catalog entries with relations preloaded, plus the
// total count before limit/offset is applied.
func (r *Repository) ListBooks(filter Filter) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{}).
		Preload("Authors").
		Preload("Publisher").
		Preload("Category").
		Preload("Copies")

	// Author joins multiply rows, so those filters group by the primary
	// key; gorm then counts groups instead of joined rows.
	joined := false
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN book_authors ON book_authors.book_id = books.id").
			Joins("LEFT JOIN authors ON authors.id = book_authors.author_id").
			Where("books.title LIKE ? OR books.isbn LIKE ? OR authors.last_name LIKE ? OR authors.first_name LIKE ?",
				pattern, pattern, pattern, pattern)
		joined = true
	}
	if filter.Category != "" {
		query = query.
			Joins("LEFT JOIN categories ON categories.id = books.category_id").
			Where("categories.name LIKE ?", "%"+filter.Category+"%")
	}
	if filter.Author != "" {
		query = query.
			Joins("LEFT JOIN book_authors ba ON ba.book_id = books.id").
			Joins("LEFT JOIN authors au ON au.id = ba.author_id").
			Where("au.last_name LIKE ?", "%"+filter.Author+"%")
		joined = true
	}
	if joined {
		query = query.Group("books.id")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var books []entities.Book
	err := query.Order("books.title").Find(&books).Error
	return books, total, err
}

// GetBookByID retrieves a single book with relations preloaded.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("Authors").
		Preload("Publisher").
		Preload("Category").
		Preload("Copies").
		First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
