package reports

import (
	"errors"
	"fmt"

	"github.com/abolmasow/electronic-library/internal/database/books"
	"github.com/abolmasow/electronic-library/internal/entities"
)

// ErrUnknownModel is returned for report models outside the known set.
var ErrUnknownModel = errors.New("unknown report model")

// Report model names accepted by the export boundary.
const (
	ModelBooks = "books"
	ModelUsers = "users"
	ModelLoans = "loans"
)

// Catalog supplies book listings for the books report.
type Catalog interface {
	ListBooks(filter books.Filter) ([]entities.Book, int64, error)
}

// UserDirectory supplies the user listing for the users report.
type UserDirectory interface {
	ListUsers() ([]entities.User, error)
}

// LoanLedger supplies loan listings for the loans report.
type LoanLedger interface {
	ListLoans(status entities.LoanStatus) ([]entities.Loan, error)
}

// ProjectionBuilder resolves a report model name into the (table, columns,
// title) triple the Exporter consumes. It is the only place that knows how
// domain entities flatten into tabular form.
type ProjectionBuilder struct {
	books Catalog
	users UserDirectory
	loans LoanLedger
}

// NewProjectionBuilder creates a projection builder over the repositories.
func NewProjectionBuilder(books Catalog, users UserDirectory, loans LoanLedger) *ProjectionBuilder {
	return &ProjectionBuilder{books: books, users: users, loans: loans}
}

// Build returns the tabular projection for the named model.
func (b *ProjectionBuilder) Build(model string) (Table, []Column, string, error) {
	switch model {
	case ModelBooks:
		return b.buildBooks()
	case ModelUsers:
		return b.buildUsers()
	case ModelLoans:
		return b.buildLoans()
	default:
		return Table{}, nil, "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

func (b *ProjectionBuilder) buildBooks() (Table, []Column, string, error) {
	columns := []Column{
		{Field: "title", Header: "Title"},
		{Field: "authors", Header: "Authors"},
		{Field: "isbn", Header: "ISBN"},
		{Field: "publication_year", Header: "Publication Year"},
		{Field: "page_count", Header: "Pages"},
		{Field: "available_copies", Header: "Available Copies"},
	}

	all, _, err := b.books.ListBooks(books.Filter{})
	if err != nil {
		return Table{}, nil, "", fmt.Errorf("failed to list books: %w", err)
	}

	table := Table{Rows: make([]Row, 0, len(all))}
	for _, book := range all {
		names := make([]string, 0, len(book.Authors))
		for _, author := range book.Authors {
			names = append(names, author.FullName())
		}

		row := Row{
			"title":            book.Title,
			"authors":          names,
			"isbn":             book.ISBN,
			"publication_year": book.PublicationYear,
			"available_copies": book.AvailableCopies(),
		}
		if book.PageCount != nil {
			row["page_count"] = *book.PageCount
		}
		table.Rows = append(table.Rows, row)
	}

	return table, columns, "Books Report", nil
}

func (b *ProjectionBuilder) buildUsers() (Table, []Column, string, error) {
	columns := []Column{
		{Field: "username", Header: "Username"},
		{Field: "email", Header: "Email"},
		{Field: "role", Header: "Role"},
		{Field: "registered_at", Header: "Registered"},
		{Field: "active", Header: "Active"},
	}

	all, err := b.users.ListUsers()
	if err != nil {
		return Table{}, nil, "", fmt.Errorf("failed to list users: %w", err)
	}

	table := Table{Rows: make([]Row, 0, len(all))}
	for _, user := range all {
		table.Rows = append(table.Rows, Row{
			"username":      user.Username,
			"email":         user.Email,
			"role":          string(user.Role),
			"registered_at": user.RegisteredAt,
			"active":        user.Active,
		})
	}

	return table, columns, "Users Report", nil
}

func (b *ProjectionBuilder) buildLoans() (Table, []Column, string, error) {
	columns := []Column{
		{Field: "user.username", Header: "User"},
		{Field: "book.title", Header: "Book"},
		{Field: "loan_date", Header: "Loan Date"},
		{Field: "due_date", Header: "Due Date"},
		{Field: "status", Header: "Status"},
	}

	active, err := b.loans.ListLoans(entities.LoanStatusActive)
	if err != nil {
		return Table{}, nil, "", fmt.Errorf("failed to list loans: %w", err)
	}

	table := Table{Rows: make([]Row, 0, len(active))}
	for _, loan := range active {
		table.Rows = append(table.Rows, Row{
			"user.username": loan.User.Username,
			"book.title":    loan.BookCopy.Book.Title,
			"loan_date":     loan.LoanDate,
			"due_date":      loan.DueDate,
			"status":        string(loan.Status),
		})
	}

	return table, columns, "Active Loans Report", nil
}
