package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type holidayRepo interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, owner, id string) error
}

// HolidayService manages the owner's holiday calendar consumed by the
// streak walk.
type HolidayService struct {
	holidays  holidayRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs HolidayService.
func NewHolidayService(holidays holidayRepo, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{holidays: holidays, validator: validate, logger: logger}
}

// List returns the owner's holidays ordered by date.
func (s *HolidayService) List(ctx context.Context, owner string) ([]models.Holiday, error) {
	holidays, err := s.holidays.ListByOwner(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return holidays, nil
}

// Add registers a new holiday date.
func (s *HolidayService) Add(ctx context.Context, owner string, req dto.AddHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	holiday := &models.Holiday{Owner: owner, Date: req.Date, Label: req.Label}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return holiday, nil
}

// Remove deletes an owner's holiday.
func (s *HolidayService) Remove(ctx context.Context, owner, id string) error {
	if err := s.holidays.Delete(ctx, owner, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	return nil
}
