package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/database"
	"github.com/abolmasow/electronic-library/internal/database/books"
	"github.com/abolmasow/electronic-library/internal/entities"
)

func setupBooksTest(t *testing.T) (*books.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	author := entities.Author{FirstName: "Фёдор", LastName: "Достоевский"}
	require.NoError(t, db.DB.Create(&author).Error)

	book := entities.Book{
		Title:   "Преступление и наказание",
		ISBN:    "9785699880923",
		Authors: []entities.Author{author},
	}
	require.NoError(t, db.DB.Create(&book).Error)

	other := entities.Book{Title: "Go in Action", ISBN: "9781617291784"}
	require.NoError(t, db.DB.Create(&other).Error)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return books.NewRepository(db.DB), cleanup
}

func TestBooksController_ListBooks(t *testing.T) {
	repo, cleanup := setupBooksTest(t)
	defer cleanup()

	controller := NewBooksController(repo)
	router := gin.New()
	router.GET("/api/books", controller.ListBooks)

	t.Run("lists all books", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []entities.Book `json:"books"`
			Total int64           `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.Total)
		assert.Len(t, response.Books, 2)
	})

	t.Run("filters by search term", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books?search=Go+in+Action", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []entities.Book `json:"books"`
			Total int64           `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(1), response.Total)
		require.Len(t, response.Books, 1)
		assert.Equal(t, "Go in Action", response.Books[0].Title)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	repo, cleanup := setupBooksTest(t)
	defer cleanup()

	controller := NewBooksController(repo)
	router := gin.New()
	router.GET("/api/books/:id", controller.GetBook)

	t.Run("returns the book with relations", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Преступление и наказание", book.Title)
		require.Len(t, book.Authors, 1)
		assert.Equal(t, "Достоевский", book.Authors[0].LastName)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
