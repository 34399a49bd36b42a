package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/response"
)

type holidayService interface {
	List(ctx context.Context, owner string) ([]models.Holiday, error)
	Add(ctx context.Context, owner string, req dto.AddHolidayRequest) (*models.Holiday, error)
	Remove(ctx context.Context, owner, id string) error
}

// HolidayHandler manages the personal holiday calendar endpoints.
type HolidayHandler struct {
	holidays holidayService
}

// NewHolidayHandler constructs the handler.
func NewHolidayHandler(holidays holidayService) *HolidayHandler {
	return &HolidayHandler{holidays: holidays}
}

// List godoc
// @Summary List registered holidays
// @Tags Holidays
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	holidays, err := h.holidays.List(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// Add godoc
// @Summary Register a holiday
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.AddHolidayRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Add(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	holiday, err := h.holidays.Add(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// Delete godoc
// @Summary Remove a holiday
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.holidays.Remove(c.Request.Context(), owner, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
