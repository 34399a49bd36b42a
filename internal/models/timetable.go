package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Weekday is a lowercase day-of-week key in the weekly schedule.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Valid returns true when the weekday is a supported value.
func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	default:
		return false
	}
}

// WeekdayOf maps a calendar date to its schedule key.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// SlotType classifies a scheduled period.
type SlotType string

const (
	SlotLecture SlotType = "lecture"
	SlotLab     SlotType = "lab"
	SlotBreak   SlotType = "break"
	SlotFree    SlotType = "free"
)

// Valid returns true when the slot type is a supported value.
func (t SlotType) Valid() bool {
	switch t {
	case SlotLecture, SlotLab, SlotBreak, SlotFree:
		return true
	default:
		return false
	}
}

// ScheduleSlot is one scheduled period in the recurring weekly timetable.
// Start and End are HH:MM strings; ordering within a day follows Start.
type ScheduleSlot struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	SubjectID string   `json:"subject_id,omitempty"`
	Type      SlotType `json:"type"`
}

// WeekMap holds the per-day ordered slot sequences, stored as JSONB.
type WeekMap map[Weekday][]ScheduleSlot

// Value implements driver.Valuer for JSONB persistence.
func (m WeekMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB persistence.
func (m *WeekMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = WeekMap{}
		return nil
	default:
		return fmt.Errorf("unsupported schedule scan type %T", src)
	}
}

// Schedule schema versions. Version 1 is the legacy time-keyed layout kept
// only long enough to migrate stored rows; new writes are always version 2.
const (
	ScheduleSchemaLegacy  = 1
	ScheduleSchemaCurrent = 2
)

// ScheduleRecord is the stored schedule row with the structure column kept
// raw. Legacy rows (schema version 1) use a time-keyed layout that cannot be
// decoded as a WeekMap; decoding is versioned at the service layer.
type ScheduleRecord struct {
	ID            string         `db:"id"`
	Owner         string         `db:"owner"`
	Semester      int            `db:"semester"`
	Schedule      types.JSONText `db:"schedule"`
	SchemaVersion int            `db:"schema_version"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// WeeklySchedule is the owner's recurring timetable for one semester.
type WeeklySchedule struct {
	ID            string    `db:"id" json:"id"`
	Owner         string    `db:"owner" json:"owner"`
	Semester      int       `db:"semester" json:"semester"`
	Schedule      WeekMap   `db:"schedule" json:"schedule"`
	SchemaVersion int       `db:"schema_version" json:"schema_version"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ClassEntry is one reconciled slot for a concrete date: the scheduled period
// joined with the attendance event that covers it, if any.
type ClassEntry struct {
	SubjectID   string      `json:"subject_id,omitempty"`
	SubjectName string      `json:"subject_name,omitempty"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	Type        SlotType    `json:"type"`
	Status      EventStatus `json:"status"`
	Note        *string     `json:"note,omitempty"`
	EventID     *string     `json:"event_id,omitempty"`
}

// StatusPending marks a reconciled slot with no covering event yet.
const StatusPending EventStatus = "pending"
