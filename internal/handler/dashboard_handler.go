package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/middleware"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/response"
)

type dashboardService interface {
	Dashboard(ctx context.Context, owner string, semester int) (*dto.DashboardResponse, bool, error)
}

type overviewService interface {
	Overview(ctx context.Context, owner string) (*dto.SemesterOverviewResponse, error)
}

// DashboardHandler wires the attendance dashboard to HTTP endpoints.
type DashboardHandler struct {
	dashboards dashboardService
	overview   overviewService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboards dashboardService, overview overviewService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, overview: overview}
}

// Dashboard godoc
// @Summary Semester attendance dashboard with bunk-guard projections
// @Tags Dashboard
// @Produce json
// @Param semester query int true "Semester (1-8)"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
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

	summary, cacheHit, err := h.dashboards.Dashboard(c.Request.Context(), owner, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Overview godoc
// @Summary Attendance aggregates across all semesters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.overview.Overview(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}
