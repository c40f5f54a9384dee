package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abolmasow/electronic-library/internal/reports"
)

// ExportController serves report exports in the supported formats.
type ExportController struct {
	projections *reports.ProjectionBuilder
}

func NewExportController(projections *reports.ProjectionBuilder) *ExportController {
	return &ExportController{projections: projections}
}

// Export renders the requested model in the requested format and writes
// the document as an attachment.
func (controller *ExportController) Export(c *gin.Context) {
	model := c.Query("model")
	if model == "" {
		respondBadRequest(c, "model query parameter is required")
		return
	}

	format, err := reports.ParseFormat(c.Query("format"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	table, columns, title, err := controller.projections.Build(model)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownModel) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "build export projection")
		return
	}

	doc, err := reports.Export(table, columns, format, title)
	if err != nil {
		respondInternalError(c, err, "render export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
