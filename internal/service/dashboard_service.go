package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

// DashboardService assembles the per-semester attendance overview with a
// bunk-guard projection for every subject.
type DashboardService struct {
	subjects      subjectLister
	cache         *CacheService
	targetPercent int
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(subjects subjectLister, cache *CacheService, targetPercent int, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if targetPercent <= 0 || targetPercent >= 100 {
		targetPercent = 75
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		subjects:      subjects,
		cache:         cache,
		targetPercent: targetPercent,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

// Dashboard returns the semester overview, served from cache when fresh.
func (s *DashboardService) Dashboard(ctx context.Context, owner string, semester int) (*dto.DashboardResponse, bool, error) {
	if semester < 1 || semester > 8 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}

	key := fmt.Sprintf("dashboard:%s:%d", owner, semester)
	if s.cache != nil {
		var cached dto.DashboardResponse
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, true, nil
		}
	}

	subjects, _, err := s.subjects.List(ctx, models.SubjectFilter{Owner: owner, Semester: &semester, PageSize: 100})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	response := &dto.DashboardResponse{
		Semester:      semester,
		TargetPercent: s.targetPercent,
		Subjects:      make([]dto.SubjectDashboard, 0, len(subjects)),
	}

	var attendedSum, totalSum int
	for _, subject := range subjects {
		projection, err := BunkGuard(subject.Attended, subject.Total, s.targetPercent)
		if err != nil {
			return nil, false, err
		}
		attendedSum += subject.Attended
		totalSum += subject.Total
		response.Subjects = append(response.Subjects, dto.SubjectDashboard{
			SubjectID:  subject.ID,
			Name:       subject.Name,
			Code:       subject.Code,
			Attended:   subject.Attended,
			Total:      subject.Total,
			Projection: projection,
		})
	}
	response.OverallPercentage = AttendancePercent(attendedSum, totalSum)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache store failed", zap.String("owner", owner), zap.Error(err))
		}
	}
	return response, false, nil
}
