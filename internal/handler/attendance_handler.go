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

type ledgerService interface {
	MarkEvent(ctx context.Context, owner string, req dto.MarkEventRequest) (*models.AttendanceEvent, error)
	EditEvent(ctx context.Context, owner, eventID string, req dto.EditEventRequest) (*models.AttendanceEvent, error)
	DeleteEvent(ctx context.Context, owner, eventID string) error
	ListEvents(ctx context.Context, owner string, req dto.EventListRequest) ([]models.EventRecord, *models.Pagination, error)
}

type streakService interface {
	Streak(ctx context.Context, owner string) (int, error)
}

// AttendanceHandler wires the ledger write path and streak read to HTTP.
type AttendanceHandler struct {
	ledger  ledgerService
	streaks streakService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(ledger ledgerService, streaks streakService) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger, streaks: streaks}
}

// Mark godoc
// @Summary Log an attendance event
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.MarkEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /attendance/events [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.MarkEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	event, err := h.ledger.MarkEvent(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Edit godoc
// @Summary Edit an attendance event
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.EditEventRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /attendance/events/{id} [patch]
func (h *AttendanceHandler) Edit(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.EditEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	event, err := h.ledger.EditEvent(c.Request.Context(), owner, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete an attendance event
// @Tags Attendance
// @Produce json
// @Param id path string true "Event ID"
// @Success 204
// @Router /attendance/events/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.ledger.DeleteEvent(c.Request.Context(), owner, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List attendance events
// @Tags Attendance
// @Produce json
// @Param subject_id query string false "Subject ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance/events [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req := dto.EventListRequest{
		SubjectID: c.Query("subject_id"),
		Date:      c.Query("date"),
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, pagination, err := h.ledger.ListEvents(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Streak godoc
// @Summary Current perfect-attendance streak
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/streak [get]
func (h *AttendanceHandler) Streak(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	streak, err := h.streaks.Streak(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StreakResponse{Streak: streak}, nil)
}
