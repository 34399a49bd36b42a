package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/dto"
	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
)

type scheduleStore interface {
	Get(ctx context.Context, owner string, semester int) (*models.ScheduleRecord, error)
	Upsert(ctx context.Context, schedule *models.WeeklySchedule) error
	SaveMigrated(ctx context.Context, id string, schedule []byte, version int) error
}

type dayEventReader interface {
	ListByOwnerAndDate(ctx context.Context, owner, date string) ([]models.AttendanceEvent, error)
}

type subjectLister interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
}

// TimetableService manages the recurring weekly schedule and reconciles it
// against the attendance events actually logged on a date.
type TimetableService struct {
	schedules scheduleStore
	events    dayEventReader
	subjects  subjectLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs TimetableService.
func NewTimetableService(schedules scheduleStore, events dayEventReader, subjects subjectLister, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		schedules: schedules,
		events:    events,
		subjects:  subjects,
		validator: validate,
		logger:    logger,
	}
}

// GetSchedule returns the owner's weekly schedule for a semester, migrating
// legacy rows to the current schema on first read.
func (s *TimetableService) GetSchedule(ctx context.Context, owner string, semester int) (*models.WeeklySchedule, error) {
	if semester < 1 || semester > 8 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}

	record, err := s.schedules.Get(ctx, owner, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	week, err := s.decode(ctx, record)
	if err != nil {
		return nil, err
	}

	return &models.WeeklySchedule{
		ID:            record.ID,
		Owner:         record.Owner,
		Semester:      record.Semester,
		Schedule:      week,
		SchemaVersion: models.ScheduleSchemaCurrent,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}, nil
}

// SaveSchedule replaces the owner's weekly schedule for a semester. New
// writes are always stored in the current schema.
func (s *TimetableService) SaveSchedule(ctx context.Context, owner string, req dto.SaveScheduleRequest) (*models.WeeklySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateWeek(req.Schedule); err != nil {
		return nil, err
	}

	schedule := &models.WeeklySchedule{
		Owner:         owner,
		Semester:      req.Semester,
		Schedule:      sortedWeek(req.Schedule),
		SchemaVersion: models.ScheduleSchemaCurrent,
	}
	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	s.logger.Info("schedule saved", zap.String("owner", owner), zap.Int("semester", req.Semester))
	return schedule, nil
}

// Reconcile maps the weekday's scheduled slots onto the date's logged
// events. Contiguous same-type slots for a subject form one block: a block
// marked with a single log entry repeats that status across its slots, while
// a block logged once per period shows each status in chronological order.
func (s *TimetableService) Reconcile(ctx context.Context, owner string, semester int, date string) (*dto.ClassesForDateResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	schedule, err := s.GetSchedule(ctx, owner, semester)
	if err != nil {
		return nil, err
	}
	weekday := models.WeekdayOf(day)
	slots := schedule.Schedule[weekday]

	events, err := s.events.ListByOwnerAndDate(ctx, owner, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	names, err := s.subjectNames(ctx, owner, semester)
	if err != nil {
		return nil, err
	}

	response := &dto.ClassesForDateResponse{
		Date:    date,
		Weekday: weekday,
		Classes: reconcileSlots(slots, events, names),
	}
	return response, nil
}

// subjectCursor tracks consumption of one subject's chronologically ordered
// events across that subject's slots for the day.
type subjectCursor struct {
	events []models.AttendanceEvent
	index  int
}

func reconcileSlots(slots []models.ScheduleSlot, events []models.AttendanceEvent, names map[string]string) []models.ClassEntry {
	ordered := make([]models.ScheduleSlot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	perSubject := make(map[string][]models.AttendanceEvent)
	for _, event := range events {
		perSubject[event.SubjectID] = append(perSubject[event.SubjectID], event)
	}

	// A block is a maximal run of same-type slots in a subject's own slot
	// sequence. Each slot carries its position in the block and how many
	// block slots follow it.
	subjectSlots := make(map[string][]int)
	for i, slot := range ordered {
		if slot.SubjectID == "" {
			continue
		}
		subjectSlots[slot.SubjectID] = append(subjectSlots[slot.SubjectID], i)
	}
	blockPos := make(map[int]int, len(ordered))
	blockAfter := make(map[int]int, len(ordered))
	for _, indexes := range subjectSlots {
		start := 0
		for k := 1; k <= len(indexes); k++ {
			if k == len(indexes) || ordered[indexes[k]].Type != ordered[indexes[start]].Type {
				for p := start; p < k; p++ {
					blockPos[indexes[p]] = p - start
					blockAfter[indexes[p]] = k - 1 - p
				}
				start = k
			}
		}
	}

	cursors := make(map[string]*subjectCursor)
	entries := make([]models.ClassEntry, 0, len(ordered))
	for i, slot := range ordered {
		entry := models.ClassEntry{
			SubjectID: slot.SubjectID,
			Start:     slot.Start,
			End:       slot.End,
			Type:      slot.Type,
			Status:    models.StatusPending,
		}
		if slot.SubjectID == "" {
			entries = append(entries, entry)
			continue
		}
		entry.SubjectName = names[slot.SubjectID]

		cursor, ok := cursors[slot.SubjectID]
		if !ok {
			cursor = &subjectCursor{events: perSubject[slot.SubjectID], index: -1}
			cursors[slot.SubjectID] = cursor
		}

		unconsumed := len(cursor.events) - cursor.index - 1
		if blockPos[i] == 0 {
			// A new block always advances; past the last event the cursor
			// is exhausted and the slot stays pending.
			cursor.index++
		} else if unconsumed > blockAfter[i] {
			// A continuing block advances only while it has more unconsumed
			// events than remaining block slots, so a single combined log
			// entry covers the whole block while per-period logs land one
			// per slot.
			cursor.index++
		}

		if cursor.index >= 0 && cursor.index < len(cursor.events) {
			event := cursor.events[cursor.index]
			entry.Status = event.Status
			entry.Note = event.Note
			id := event.ID
			entry.EventID = &id
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *TimetableService) subjectNames(ctx context.Context, owner string, semester int) (map[string]string, error) {
	subjects, _, err := s.subjects.List(ctx, models.SubjectFilter{Owner: owner, Semester: &semester, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}
	return names, nil
}

// decode unmarshals the stored structure according to its schema version and
// writes legacy rows back in the current schema.
func (s *TimetableService) decode(ctx context.Context, record *models.ScheduleRecord) (models.WeekMap, error) {
	switch record.SchemaVersion {
	case models.ScheduleSchemaCurrent:
		var week models.WeekMap
		if err := json.Unmarshal(record.Schedule, &week); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt schedule structure")
		}
		return week, nil
	case models.ScheduleSchemaLegacy:
		week, err := migrateLegacySchedule(record.Schedule)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt legacy schedule structure")
		}
		raw, err := json.Marshal(week)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		if err := s.schedules.SaveMigrated(ctx, record.ID, raw, models.ScheduleSchemaCurrent); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		s.logger.Info("legacy schedule migrated", zap.String("schedule_id", record.ID))
		return week, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrInternal, "unknown schedule schema version")
	}
}

// legacySlot is the value shape of the version 1 time-keyed layout:
// {"09:00-10:00": {"monday": {"subject_id": "...", "type": "lecture"}}}.
type legacySlot struct {
	SubjectID string          `json:"subject_id"`
	Type      models.SlotType `json:"type"`
}

func migrateLegacySchedule(raw []byte) (models.WeekMap, error) {
	var legacy map[string]map[models.Weekday]legacySlot
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}

	week := models.WeekMap{}
	for timeRange, days := range legacy {
		parts := strings.SplitN(timeRange, "-", 2)
		start, end := parts[0], ""
		if len(parts) == 2 {
			end = parts[1]
		}
		for day, slot := range days {
			week[day] = append(week[day], models.ScheduleSlot{
				Start:     start,
				End:       end,
				SubjectID: slot.SubjectID,
				Type:      slot.Type,
			})
		}
	}
	return sortedWeek(week), nil
}

func sortedWeek(week models.WeekMap) models.WeekMap {
	for day := range week {
		slots := week[day]
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
		week[day] = slots
	}
	return week
}

func validateWeek(week models.WeekMap) error {
	for day, slots := range week {
		if !day.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "unknown weekday: "+string(day))
		}
		for _, slot := range slots {
			if !slot.Type.Valid() {
				return appErrors.Clone(appErrors.ErrValidation, "unknown slot type: "+string(slot.Type))
			}
			if _, err := time.Parse("15:04", slot.Start); err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "slot start must be HH:MM")
			}
			if _, err := time.Parse("15:04", slot.End); err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "slot end must be HH:MM")
			}
			if slot.Type != models.SlotBreak && slot.Type != models.SlotFree && slot.SubjectID == "" {
				return appErrors.Clone(appErrors.ErrValidation, "class slots require a subject")
			}
		}
	}
	return nil
}
