package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/database/books"
	"github.com/abolmasow/electronic-library/internal/database/loans"
	"github.com/abolmasow/electronic-library/internal/database/users"
	"github.com/abolmasow/electronic-library/internal/entities"
)

// StatsController serves aggregate catalog and circulation counts.
type StatsController struct {
	books *books.Repository
	users *users.Repository
	loans *loans.Repository
}

func NewStatsController(books *books.Repository, users *users.Repository, loans *loans.Repository) *StatsController {
	return &StatsController{
		books: books,
		users: users,
		loans: loans,
	}
}

func (controller *StatsController) GetStats(c *gin.Context) {
	totalBooks, err := controller.books.CountBooks()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}
	totalUsers, err := controller.users.CountUsers()
	if err != nil {
		respondInternalError(c, err, "count users")
		return
	}
	activeLoans, err := controller.loans.CountLoans(entities.LoanStatusActive)
	if err != nil {
		respondInternalError(c, err, "count active loans")
		return
	}
	overdueLoans, err := controller.loans.CountLoans(entities.LoanStatusOverdue)
	if err != nil {
		respondInternalError(c, err, "count overdue loans")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_books":   totalBooks,
		"total_users":   totalUsers,
		"active_loans":  activeLoans,
		"overdue_loans": overdueLoans,
	})
}
