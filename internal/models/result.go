package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubjectType determines which mark components feed a subject's total.
type SubjectType string

const (
	SubjectTheory    SubjectType = "theory"
	SubjectPractical SubjectType = "practical"
	SubjectNUES      SubjectType = "nues"
)

// Valid returns true when the subject type is a supported value.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectTheory, SubjectPractical, SubjectNUES:
		return true
	default:
		return false
	}
}

// Grade is a letter grade on the 10-point university scale.
type Grade string

const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeP     Grade = "P"
	GradeF     Grade = "F"
)

// GradeFor maps a percentage to its letter grade via the ordered
// threshold table.
func GradeFor(percentage float64) Grade {
	switch {
	case percentage >= 90:
		return GradeO
	case percentage >= 75:
		return GradeAPlus
	case percentage >= 65:
		return GradeA
	case percentage >= 55:
		return GradeBPlus
	case percentage >= 50:
		return GradeB
	case percentage >= 45:
		return GradeC
	case percentage >= 40:
		return GradeP
	default:
		return GradeF
	}
}

// Points returns the grade point on the 10-point scale.
func (g Grade) Points() int {
	switch g {
	case GradeO:
		return 10
	case GradeAPlus:
		return 9
	case GradeA:
		return 8
	case GradeBPlus:
		return 7
	case GradeB:
		return 6
	case GradeC:
		return 5
	case GradeP:
		return 4
	default:
		return 0
	}
}

// SubjectMarks holds the raw mark components entered for a subject.
type SubjectMarks struct {
	InternalTheory    float64 `json:"internal_theory"`
	ExternalTheory    float64 `json:"external_theory"`
	InternalPractical float64 `json:"internal_practical"`
	ExternalPractical float64 `json:"external_practical"`
}

// SubjectResult is one graded subject inside a semester result. The derived
// fields are always recomputed on save, never trusted from input.
type SubjectResult struct {
	Name       string       `json:"name"`
	Code       string       `json:"code"`
	Credits    int          `json:"credits"`
	Type       SubjectType  `json:"type"`
	Marks      SubjectMarks `json:"marks"`
	TotalMarks float64      `json:"total_marks"`
	MaxMarks   float64      `json:"max_marks"`
	Percentage float64      `json:"percentage"`
	Grade      Grade        `json:"grade"`
	GradePoint int          `json:"grade_point"`
}

// SubjectResultList stores the subject breakdown as JSONB.
type SubjectResultList []SubjectResult

// Value implements driver.Valuer for JSONB persistence.
func (l SubjectResultList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB persistence.
func (l *SubjectResultList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported subject result scan type %T", src)
	}
}

// SemesterResult is the stored grade record for one semester. CGPA is never
// persisted; it is recomputed from every stored semester on read.
type SemesterResult struct {
	ID           string            `db:"id" json:"id"`
	Owner        string            `db:"owner" json:"owner"`
	Semester     int               `db:"semester" json:"semester"`
	Subjects     SubjectResultList `db:"subjects" json:"subjects"`
	TotalCredits int               `db:"total_credits" json:"total_credits"`
	SGPA         float64           `db:"sgpa" json:"sgpa"`
	CGPA         float64           `db:"-" json:"cgpa"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}
