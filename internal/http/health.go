package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/database"
)

// BackupHealth reports the backup scheduler state for the health check.
// Nil means backups are disabled.
type BackupHealth interface {
	IsRunning() bool
	GetNextRunTime() *time.Time
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	backups BackupHealth
	version string
}

func NewHealthController(db *database.Database, backups BackupHealth, version string) *HealthController {
	return &HealthController{
		db:      db,
		backups: backups,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Backups are optional; a stopped scheduler is reported but does not
	// flip the overall status.
	switch {
	case h.backups == nil:
		checks["backups"] = "disabled"
	case !h.backups.IsRunning():
		checks["backups"] = "stopped"
	default:
		checks["backups"] = "scheduled"
		if next := h.backups.GetNextRunTime(); next != nil {
			checks["backups"] = "scheduled, next run " + next.Format(time.RFC3339)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
