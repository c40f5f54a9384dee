package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/database/books"
)

const defaultBookListLimit = 20

// BooksController serves the catalog listing.
type BooksController struct {
	repo *books.Repository
}

func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// ListBooks returns catalog entries matching the optional search, category
// and author filters, paginated with limit/offset.
func (controller *BooksController) ListBooks(c *gin.Context) {
	limit, offset := parsePagination(c, defaultBookListLimit, 100)

	filter := books.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		Limit:    limit,
		Offset:   offset,
	}

	items, total, err := controller.repo.ListBooks(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"books":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetBook returns a single catalog entry with its relations.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.repo.GetBookByID(id)
	if err != nil {
		respondNotFound(c, "book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}
