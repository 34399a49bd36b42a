package models

import "time"

// EventStatus represents the status of a logged attendance event.
type EventStatus string

const (
	StatusPresent         EventStatus = "present"
	StatusAbsent          EventStatus = "absent"
	StatusLate            EventStatus = "late"
	StatusApprovedMedical EventStatus = "approved_medical"
	StatusPendingMedical  EventStatus = "pending_medical"
	StatusSubstituted     EventStatus = "substituted"
	StatusSubstitution    EventStatus = "substitution_class"
	StatusCancelled       EventStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusApprovedMedical,
		StatusPendingMedical, StatusSubstituted, StatusSubstitution, StatusCancelled:
		return true
	default:
		return false
	}
}

// BreaksStreak reports whether the status terminates a perfect-attendance run.
func (s EventStatus) BreaksStreak() bool {
	return s == StatusAbsent || s == StatusPendingMedical
}

// CounterDelta is a relative adjustment to a subject's attendance counters.
type CounterDelta struct {
	Attended int
	Total    int
}

// Invert returns the reversing delta.
func (d CounterDelta) Invert() CounterDelta {
	return CounterDelta{Attended: -d.Attended, Total: -d.Total}
}

// Add combines two deltas into a single net adjustment.
func (d CounterDelta) Add(other CounterDelta) CounterDelta {
	return CounterDelta{Attended: d.Attended + other.Attended, Total: d.Total + other.Total}
}

// IsZero reports whether the delta changes nothing.
func (d CounterDelta) IsZero() bool {
	return d.Attended == 0 && d.Total == 0
}

// Effect maps a status to its counter adjustment on the event's own subject.
// Substituted and cancelled classes never count against the original subject;
// the credit for a substitution lands on the substitute subject's own
// substitution_class event.
func (s EventStatus) Effect() CounterDelta {
	switch s {
	case StatusPresent, StatusLate, StatusApprovedMedical, StatusSubstitution:
		return CounterDelta{Attended: 1, Total: 1}
	case StatusAbsent, StatusPendingMedical:
		return CounterDelta{Total: 1}
	default:
		return CounterDelta{}
	}
}

// AttendanceEvent is one logged class occurrence for a subject.
// Dates are stored as YYYY-MM-DD calendar strings; CreatedAt orders multiple
// events logged on the same day.
type AttendanceEvent struct {
	ID            string      `db:"id" json:"id"`
	SubjectID     string      `db:"subject_id" json:"subject_id"`
	Owner         string      `db:"owner" json:"owner"`
	Date          string      `db:"date" json:"date"`
	Status        EventStatus `db:"status" json:"status"`
	Note          *string     `db:"note" json:"note,omitempty"`
	SubstitutedBy *string     `db:"substituted_by" json:"substituted_by,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// EventFilter scopes event listing queries.
type EventFilter struct {
	Owner     string
	SubjectID string
	Date      string
	Page      int
	PageSize  int
}

// EventRecord extends an event row with subject metadata for list views.
type EventRecord struct {
	AttendanceEvent
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}
