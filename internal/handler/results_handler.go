package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/response"
)

type gradeService interface {
	SaveSemesterResult(ctx context.Context, owner string, req dto.SaveSemesterResultRequest) (*models.SemesterResult, error)
	ListResults(ctx context.Context, owner string) ([]models.SemesterResult, error)
	GetResult(ctx context.Context, owner string, semester int) (*models.SemesterResult, error)
	DeleteResult(ctx context.Context, owner string, semester int) error
}

// ResultsHandler wires the grade engine to HTTP endpoints.
type ResultsHandler struct {
	grades gradeService
}

// NewResultsHandler constructs the handler.
func NewResultsHandler(grades gradeService) *ResultsHandler {
	return &ResultsHandler{grades: grades}
}

// Save godoc
// @Summary Save a semester's graded subjects
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.SaveSemesterResultRequest true "Semester subjects with raw marks"
// @Success 200 {object} response.Envelope
// @Router /results [post]
func (h *ResultsHandler) Save(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveSemesterResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.grades.SaveSemesterResult(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary All semester results with cumulative GPA
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultsHandler) List(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	results, err := h.grades.ListResults(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Get godoc
// @Summary One semester's result with cumulative GPA
// @Tags Results
// @Produce json
// @Param semester path int true "Semester (1-8)"
// @Success 200 {object} response.Envelope
// @Router /results/{semester} [get]
func (h *ResultsHandler) Get(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.Param("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be an integer"))
		return
	}

	result, err := h.grades.GetResult(c.Request.Context(), owner, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete one semester's result
// @Tags Results
// @Produce json
// @Param semester path int true "Semester (1-8)"
// @Success 204
// @Router /results/{semester} [delete]
func (h *ResultsHandler) Delete(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.Param("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be an integer"))
		return
	}

	if err := h.grades.DeleteResult(c.Request.Context(), owner, semester); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
