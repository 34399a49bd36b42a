package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type holidayReader interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Holiday, error)
}

type eventHistoryReader interface {
	ListSince(ctx context.Context, owner, fromDate string) ([]models.AttendanceEvent, error)
}

// StreakService computes the current consecutive perfect-attendance run by
// walking backward from today one calendar day at a time.
type StreakService struct {
	events   eventHistoryReader
	holidays holidayReader
	lookback int
	logger   *zap.Logger
	now      func() time.Time
}

// NewStreakService constructs StreakService. The lookback caps the backward
// scan so sparse histories terminate in bounded time.
func NewStreakService(events eventHistoryReader, holidays holidayReader, lookbackDays int, logger *zap.Logger) *StreakService {
	if lookbackDays <= 0 {
		lookbackDays = 366
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakService{
		events:   events,
		holidays: holidays,
		lookback: lookbackDays,
		logger:   logger,
		now:      time.Now,
	}
}

// Streak walks backward from today. Holidays are skipped without counting.
// A day with events extends the run unless any event is absent or
// pending_medical. A weekday with no events ends the run; weekends with no
// events are skipped like holidays.
func (s *StreakService) Streak(ctx context.Context, owner string) (int, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -s.lookback)

	events, err := s.events.ListSince(ctx, owner, cutoff.Format("2006-01-02"))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	holidays, err := s.holidays.ListByOwner(ctx, owner)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	byDate := make(map[string][]models.AttendanceEvent, len(events))
	for _, event := range events {
		byDate[event.Date] = append(byDate[event.Date], event)
	}
	holidaySet := make(map[string]struct{}, len(holidays))
	for _, holiday := range holidays {
		holidaySet[holiday.Date] = struct{}{}
	}

	streak := 0
	for i := 0; i < s.lookback; i++ {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")

		if _, ok := holidaySet[key]; ok {
			continue
		}

		dayEvents, logged := byDate[key]
		if !logged {
			weekday := day.Weekday()
			if weekday == time.Saturday || weekday == time.Sunday {
				continue
			}
			break
		}

		broken := false
		for _, event := range dayEvents {
			if event.Status.BreaksStreak() {
				broken = true
				break
			}
		}
		if broken {
			break
		}
		streak++
	}

	return streak, nil
}
