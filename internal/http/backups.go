package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/database/backups"
)

const defaultBackupListLimit = 50

// BackupsController exposes the backup audit trail and an on-demand trigger.
type BackupsController struct {
	repo   *backups.Repository
	runner BackupRunner
}

func NewBackupsController(repo *backups.Repository, runner BackupRunner) *BackupsController {
	return &BackupsController{
		repo:   repo,
		runner: runner,
	}
}

// ListBackups returns the most recent backup records, newest first.
func (controller *BackupsController) ListBackups(c *gin.Context) {
	limit, _ := parsePagination(c, defaultBackupListLimit, 500)

	records, err := controller.repo.List(limit)
	if err != nil {
		respondInternalError(c, err, "list backups")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"backups": records, "count": len(records)})
}

// RunBackup triggers an immediate backup run in the background.
func (controller *BackupsController) RunBackup(c *gin.Context) {
	if controller.runner == nil {
		respondBadRequest(c, "backups are not enabled")
		return
	}

	controller.runner.RunNow()
	respondAccepted(c, "backup started", nil)
}
