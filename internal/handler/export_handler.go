package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/response"
)

type exportService interface {
	AttendanceReport(ctx context.Context, owner, format string) ([]byte, string, error)
	ResultsReport(ctx context.Context, owner, format string) ([]byte, string, error)
}

// ExportHandler serves downloadable attendance and results reports.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Attendance godoc
// @Summary Download the attendance report
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, filename, err := h.exports.AttendanceReport(c.Request.Context(), owner, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename)
}

// Results godoc
// @Summary Download the semester results report
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /exports/results [get]
func (h *ExportHandler) Results(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, filename, err := h.exports.ResultsReport(c.Request.Context(), owner, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename)
}

func serveAttachment(c *gin.Context, payload []byte, filename string) {
	contentType := "text/csv"
	if strings.HasSuffix(filename, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
