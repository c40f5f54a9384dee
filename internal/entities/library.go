package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleReader    Role = "reader"
)

type Language string

const (
	LanguageRussian Language = "ru"
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
)

type CopyStatus string

const (
	CopyStatusAvailable   CopyStatus = "available"
	CopyStatusBorrowed    CopyStatus = "borrowed"
	CopyStatusReserved    CopyStatus = "reserved"
	CopyStatusMaintenance CopyStatus = "maintenance"
	CopyStatusLost        CopyStatus = "lost"
)

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type FineStatus string

const (
	FineStatusUnpaid FineStatus = "unpaid"
	FineStatusPaid   FineStatus = "paid"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	Role         Role           `gorm:"size:20;default:'reader'" json:"role"`
	Phone        string         `gorm:"size:20" json:"phone,omitempty"`
	Address      string         `gorm:"type:text" json:"address,omitempty"`
	BirthDate    *time.Time     `json:"birth_date,omitempty"`
	Active       bool           `gorm:"default:true" json:"active"`
	RegisteredAt time.Time      `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Author struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FirstName  string     `gorm:"size:100" json:"first_name"`
	LastName   string     `gorm:"index;size:100" json:"last_name"`
	MiddleName string     `gorm:"size:100" json:"middle_name,omitempty"`
	Biography  string     `gorm:"type:text" json:"biography,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	DeathDate  *time.Time `json:"death_date,omitempty"`
	Country    string     `gorm:"size:100" json:"country,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// FullName renders "Lastname Firstname" the way catalog listings show authors.
func (a Author) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.LastName + " " + a.FirstName
}

type Publisher struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"uniqueIndex;size:200" json:"name"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	ContactEmail string `gorm:"size:255" json:"contact_email,omitempty"`
	Phone        string `gorm:"size:20" json:"phone,omitempty"`
	Website      string `gorm:"size:2048" json:"website,omitempty"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ParentID    *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"-"`
}

type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"index;size:512" json:"title"`
	Authors         []Author       `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	ISBN            string         `gorm:"uniqueIndex;size:13" json:"isbn"`
	PublicationYear int            `json:"publication_year"`
	PublisherID     *uint          `gorm:"index" json:"publisher_id,omitempty"`
	Publisher       *Publisher     `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	CategoryID      *uint          `gorm:"index" json:"category_id,omitempty"`
	Category        *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PageCount       *int           `json:"page_count,omitempty"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	Language        Language       `gorm:"size:10;default:'ru'" json:"language"`
	Copies          []BookCopy     `gorm:"foreignKey:BookID" json:"copies,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// AvailableCopies counts preloaded copies in the available state.
func (b Book) AvailableCopies() int {
	n := 0
	for _, c := range b.Copies {
		if c.Status == CopyStatusAvailable {
			n++
		}
	}
	return n
}

type BookCopy struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BookID          uint       `gorm:"index" json:"book_id"`
	Book            Book       `gorm:"foreignKey:BookID" json:"-"`
	InventoryNumber string     `gorm:"uniqueIndex;size:50" json:"inventory_number"`
	Status          CopyStatus `gorm:"size:20;default:'available'" json:"status"`
	AcquiredAt      *time.Time `json:"acquired_at,omitempty"`
	Location        string     `gorm:"size:100" json:"location,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`
}

type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BookCopyID uint       `gorm:"index" json:"book_copy_id"`
	BookCopy   BookCopy   `gorm:"foreignKey:BookCopyID" json:"book_copy,omitempty"`
	LoanDate   time.Time  `gorm:"autoCreateTime" json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     LoanStatus `gorm:"index;size:20;default:'active'" json:"status"`
}

type Reservation struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"index" json:"user_id"`
	User       User              `gorm:"foreignKey:UserID" json:"-"`
	BookID     uint              `gorm:"index" json:"book_id"`
	Book       Book              `gorm:"foreignKey:BookID" json:"-"`
	ReservedAt time.Time         `gorm:"autoCreateTime" json:"reserved_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Status     ReservationStatus `gorm:"index;size:20;default:'pending'" json:"status"`
}

// ReservationTTL is how long a reservation is held before it lapses.
const ReservationTTL = 7 * 24 * time.Hour

// BeforeCreate fills the expiry for reservations created without one.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ExpiresAt.IsZero() {
		r.ExpiresAt = time.Now().Add(ReservationTTL)
	}
	return nil
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	BookID    uint      `gorm:"index" json:"book_id"`
	Book      Book      `gorm:"foreignKey:BookID" json:"-"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Fine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index" json:"user_id"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	LoanID    uint            `gorm:"index" json:"loan_id"`
	Loan      Loan            `gorm:"foreignKey:LoanID" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Reason    string          `gorm:"type:text" json:"reason"`
	Status    FineStatus      `gorm:"index;size:20;default:'unpaid'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

func (User) TableName() string        { return "users" }
func (Author) TableName() string      { return "authors" }
func (Publisher) TableName() string   { return "publishers" }
func (Category) TableName() string    { return "categories" }
func (Book) TableName() string        { return "books" }
func (BookCopy) TableName() string    { return "book_copies" }
func (Loan) TableName() string        { return "loans" }
func (Reservation) TableName() string { return "reservations" }
func (Review) TableName() string      { return "reviews" }
func (Fine) TableName() string        { return "fines" }
