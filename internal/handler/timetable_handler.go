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

type timetableService interface {
	GetSchedule(ctx context.Context, owner string, semester int) (*models.WeeklySchedule, error)
	SaveSchedule(ctx context.Context, owner string, req dto.SaveScheduleRequest) (*models.WeeklySchedule, error)
	Reconcile(ctx context.Context, owner string, semester int, date string) (*dto.ClassesForDateResponse, error)
}

// TimetableHandler wires the weekly schedule and reconciler to HTTP.
type TimetableHandler struct {
	timetables timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(timetables timetableService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables}
}

// Get godoc
// @Summary Weekly schedule for a semester
// @Tags Timetable
// @Produce json
// @Param semester query int true "Semester (1-8)"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}

	schedule, err := h.timetables.GetSchedule(c.Request.Context(), owner, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Save godoc
// @Summary Replace the weekly schedule for a semester
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Full weekly structure"
// @Success 200 {object} response.Envelope
// @Router /timetable [put]
func (h *TimetableHandler) Save(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	schedule, err := h.timetables.SaveSchedule(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Classes godoc
// @Summary Scheduled classes for a date with their marked statuses
// @Tags Timetable
// @Produce json
// @Param semester query int true "Semester (1-8)"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /timetable/classes [get]
func (h *TimetableHandler) Classes(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}

	classes, err := h.timetables.Reconcile(c.Request.Context(), owner, semester, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}
