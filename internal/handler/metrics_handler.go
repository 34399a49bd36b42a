package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/models"
	"github.com/acadhub/acadhub-api/internal/service"
	"github.com/acadhub/acadhub-api/pkg/response"
)

// MetricsHandler exposes health and runtime metric endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"}, nil)
}

// Snapshot godoc
// @Summary Aggregated runtime metrics snapshot
// @Tags System
// @Produce json
// @Success 200 {object} models.SystemMetrics
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	var snapshot models.SystemMetrics
	if h.metrics != nil {
		snapshot = h.metrics.Snapshot()
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Prometheus returns the raw Prometheus exposition handler.
func (h *MetricsHandler) Prometheus() gin.HandlerFunc {
	return gin.WrapH(h.metrics.Handler())
}
