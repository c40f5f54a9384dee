// Package http exposes the JSON API: catalog listing, report export,
// and the backup audit trail.
package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.BackupHealth, cfg.Version)
	router.GET("/health", healthController.Status)

	api := router.Group("/api")
	{
		booksController := NewBooksController(cfg.Books)
		api.GET("/books", booksController.ListBooks)
		api.GET("/books/:id", booksController.GetBook)

		statsController := NewStatsController(cfg.Books, cfg.Users, cfg.Loans)
		api.GET("/stats", statsController.GetStats)

		exportController := NewExportController(cfg.Projections)
		api.GET("/export", exportController.Export)

		backupsController := NewBackupsController(cfg.Backups, cfg.BackupRunner)
		api.GET("/backups", backupsController.ListBackups)
		api.POST("/backups/run", backupsController.RunBackup)
	}

	return router
}
