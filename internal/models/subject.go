package models

import (
	"time"

	"github.com/lib/pq"
)

// SubjectCategory classifies how a subject is taught and assessed.
type SubjectCategory string

const (
	CategoryTheory     SubjectCategory = "theory"
	CategoryPractical  SubjectCategory = "practical"
	CategoryAssignment SubjectCategory = "assignment"
)

// Valid returns true when the category is a supported value.
func (c SubjectCategory) Valid() bool {
	switch c {
	case CategoryTheory, CategoryPractical, CategoryAssignment:
		return true
	default:
		return false
	}
}

// Subject represents an enrolled subject with its attendance counters.
// A subject may combine several categories, e.g. theory plus practical.
type Subject struct {
	ID         string         `db:"id" json:"id"`
	Owner      string         `db:"owner" json:"owner"`
	Semester   int            `db:"semester" json:"semester"`
	Name       string         `db:"name" json:"name"`
	Code       string         `db:"code" json:"code"`
	Categories pq.StringArray `db:"categories" json:"categories"`
	Professor  *string        `db:"professor" json:"professor,omitempty"`
	Classroom  *string        `db:"classroom" json:"classroom,omitempty"`
	Attended   int            `db:"attended" json:"attended"`
	Total      int            `db:"total" json:"total"`

	PracticalsTotal      int  `db:"practicals_total" json:"practicals_total"`
	PracticalsCompleted  int  `db:"practicals_completed" json:"practicals_completed"`
	PracticalsHardcopy   bool `db:"practicals_hardcopy" json:"practicals_hardcopy"`
	AssignmentsTotal     int  `db:"assignments_total" json:"assignments_total"`
	AssignmentsCompleted int  `db:"assignments_completed" json:"assignments_completed"`
	AssignmentsHardcopy  bool `db:"assignments_hardcopy" json:"assignments_hardcopy"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasCategory reports whether the subject carries the given category.
func (s *Subject) HasCategory(c SubjectCategory) bool {
	for _, item := range s.Categories {
		if SubjectCategory(item) == c {
			return true
		}
	}
	return false
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Owner    string
	Semester *int
	Search   string
	Page     int
	PageSize int
}
