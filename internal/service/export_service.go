package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/acadhub/acadhub-api/internal/models"
	appErrors "github.com/acadhub/acadhub-api/pkg/errors"
	"github.com/acadhub/acadhub-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders attendance snapshots and semester results as CSV or
// PDF downloads.
type ExportService struct {
	subjects subjectLister
	results  resultRepo
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(subjects subjectLister, results resultRepo, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{subjects: subjects, results: results, csv: csv, pdf: pdf, logger: logger}
}

// AttendanceReport renders the owner's current attendance counters.
func (s *ExportService) AttendanceReport(ctx context.Context, owner, format string) ([]byte, string, error) {
	subjects, _, err := s.subjects.List(ctx, models.SubjectFilter{Owner: owner, PageSize: 100})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	dataset := export.Dataset{
		Headers: []string{"Semester", "Code", "Name", "Attended", "Total", "Percentage"},
		Rows:    make([]map[string]string, 0, len(subjects)),
	}
	for _, subject := range subjects {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Semester":   strconv.Itoa(subject.Semester),
			"Code":       subject.Code,
			"Name":       subject.Name,
			"Attended":   strconv.Itoa(subject.Attended),
			"Total":      strconv.Itoa(subject.Total),
			"Percentage": fmt.Sprintf("%.1f", AttendancePercent(subject.Attended, subject.Total)),
		})
	}

	return s.render(dataset, "Attendance Report", "attendance", format)
}

// ResultsReport renders every stored semester result with SGPA and CGPA.
func (s *ExportService) ResultsReport(ctx context.Context, owner, format string) ([]byte, string, error) {
	results, err := s.results.ListByOwner(ctx, owner)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	cgpa := CGPA(results)

	dataset := export.Dataset{
		Headers: []string{"Semester", "Subject", "Code", "Credits", "Grade", "Grade Point", "SGPA", "CGPA"},
	}
	for _, result := range results {
		for _, subject := range result.Subjects {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Semester":    strconv.Itoa(result.Semester),
				"Subject":     subject.Name,
				"Code":        subject.Code,
				"Credits":     strconv.Itoa(subject.Credits),
				"Grade":       string(subject.Grade),
				"Grade Point": strconv.Itoa(subject.GradePoint),
				"SGPA":        fmt.Sprintf("%.2f", result.SGPA),
				"CGPA":        fmt.Sprintf("%.2f", cgpa),
			})
		}
	}

	return s.render(dataset, "Semester Results", "results", format)
}

func (s *ExportService) render(dataset export.Dataset, title, name, format string) ([]byte, string, error) {
	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return payload, name + ".csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return payload, name + ".pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
