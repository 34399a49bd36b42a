package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/service"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/response"
)

type auditService interface {
	AuditOwner(ctx context.Context, owner string) ([]service.AuditReport, error)
	AuditOwnedSubject(ctx context.Context, owner, subjectID string) (*service.AuditReport, error)
}

// AuditHandler exposes on-demand counter reconciliation.
type AuditHandler struct {
	audits auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(audits auditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// Run godoc
// @Summary Recompute counters from event history for every subject
// @Tags Ledger
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ledger/audit [post]
func (h *AuditHandler) Run(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	reports, err := h.audits.AuditOwner(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// RunSubject godoc
// @Summary Recompute counters from event history for one subject
// @Tags Ledger
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /ledger/audit/{id} [post]
func (h *AuditHandler) RunSubject(c *gin.Context) {
	owner := ownerFromContext(c)
	if owner == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.audits.AuditOwnedSubject(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
