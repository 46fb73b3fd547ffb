package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
	"github.com/luct-reporting/reporting-api/pkg/export"
)

type reportRepository interface {
	ListVisible(ctx context.Context, id scope.Identity) ([]models.LectureReportDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.LectureReportDetail, error)
	FindDetailVisible(ctx context.Context, id scope.Identity, reportID string) (*models.LectureReportDetail, error)
	Create(ctx context.Context, report *models.LectureReport) error
	CreateWithCourse(ctx context.Context, report *models.LectureReport, course *models.Course) error
	UpdateFeedback(ctx context.Context, id, feedback string) error
}

// CreateReportRequest describes the lecture report payload. Either
// course_id references an existing course, or course_name and
// course_code describe one to provision first.
type CreateReportRequest struct {
	CourseID                string    `json:"course_id"`
	CourseName              string    `json:"course_name"`
	CourseCode              string    `json:"course_code"`
	FacultyName             string    `json:"faculty_name" validate:"required"`
	ClassName               string    `json:"class_name" validate:"required"`
	WeekOfReporting         string    `json:"week_of_reporting" validate:"required"`
	DateOfLecture           time.Time `json:"date_of_lecture" validate:"required"`
	ActualNumberPresent     int       `json:"actual_number_present" validate:"gte=0"`
	TotalRegistered         *int      `json:"total_registered" validate:"omitempty,gte=0"`
	Venue                   string    `json:"venue"`
	ScheduledLectureTime    string    `json:"scheduled_lecture_time"`
	TopicTaught             string    `json:"topic_taught" validate:"required"`
	LearningOutcomes        string    `json:"learning_outcomes"`
	LecturerRecommendations string    `json:"lecturer_recommendations"`
}

// FeedbackRequest carries the reviewer feedback overwrite.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// ExportResult is a rendered report listing ready for download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService handles lecture report submission, listing, reviewer
// feedback and export.
type ReportService struct {
	repo      reportRepository
	courses   courseReader
	cache     *CacheService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(repo reportRepository, courses courseReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:      repo,
		courses:   courses,
		cache:     cache,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// List returns the reports visible to the caller, most recent first.
func (s *ReportService) List(ctx context.Context, id scope.Identity) ([]models.LectureReportDetail, error) {
	reports, err := s.repo.ListVisible(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list reports")
	}
	return reports, nil
}

// Get returns a single report with its course descriptors, subject to
// the caller's visibility. Out-of-scope ids read as not found so report
// ids cannot be enumerated across scopes.
func (s *ReportService) Get(ctx context.Context, id scope.Identity, reportID string) (*models.LectureReportDetail, error) {
	detail, err := s.repo.FindDetailVisible(ctx, id, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, storageError(err, "failed to load report")
	}
	return detail, nil
}

// Create submits a lecture report. When no course is referenced a new one
// is provisioned first, atomically with the report. The authorship and
// attendance-capacity fields are snapshots taken here: lecturer_name
// always comes from the authenticated identity, and total_registered is
// copied from the course when omitted, immune to later course edits.
func (s *ReportService) Create(ctx context.Context, id scope.Identity, req CreateReportRequest) (*models.LectureReportDetail, error) {
	if id.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers can submit reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	report := &models.LectureReport{
		CourseID:                req.CourseID,
		FacultyName:             req.FacultyName,
		ClassName:               req.ClassName,
		WeekOfReporting:         req.WeekOfReporting,
		DateOfLecture:           req.DateOfLecture,
		LecturerID:              id.ID,
		LecturerName:            id.Name,
		ActualNumberPresent:     req.ActualNumberPresent,
		Venue:                   req.Venue,
		ScheduledLectureTime:    req.ScheduledLectureTime,
		TopicTaught:             req.TopicTaught,
		LearningOutcomes:        req.LearningOutcomes,
		LecturerRecommendations: req.LecturerRecommendations,
	}

	if req.CourseID == "" {
		if req.CourseName == "" || req.CourseCode == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "either select an existing course or enter course details")
		}
		course := &models.Course{
			FacultyName:   req.FacultyName,
			ClassName:     req.ClassName,
			CourseName:    req.CourseName,
			CourseCode:    req.CourseCode,
			Venue:         req.Venue,
			ScheduledTime: req.ScheduledLectureTime,
		}
		if req.TotalRegistered != nil {
			course.TotalRegistered = *req.TotalRegistered
		}
		report.TotalRegistered = course.TotalRegistered
		if err := s.repo.CreateWithCourse(ctx, report, course); err != nil {
			return nil, storageError(err, "failed to create report")
		}
	} else {
		course, err := s.courses.FindByID(ctx, req.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return nil, storageError(err, "failed to load course")
		}
		if req.TotalRegistered != nil {
			report.TotalRegistered = *req.TotalRegistered
		} else {
			report.TotalRegistered = course.TotalRegistered
		}
		if err := s.repo.Create(ctx, report); err != nil {
			return nil, storageError(err, "failed to create report")
		}
	}

	if err := s.cache.Invalidate(ctx, "monitoring:*"); err != nil {
		s.logger.Warn("failed to invalidate monitoring cache", zap.Error(err))
	}

	detail, err := s.repo.FindDetailByID(ctx, report.ID)
	if err != nil {
		return nil, storageError(err, "failed to load report detail")
	}
	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.String("course_id", report.CourseID),
		zap.String("lecturer_id", id.ID))
	return detail, nil
}

// UpdateFeedback overwrites the reviewer feedback on a report,
// last-writer-wins.
func (s *ReportService) UpdateFeedback(ctx context.Context, id scope.Identity, reportID string, req FeedbackRequest) (*models.LectureReportDetail, error) {
	if id.Role != models.RolePRL {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program reviewers can add feedback")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if err := s.repo.UpdateFeedback(ctx, reportID, req.Feedback); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, storageError(err, "failed to update feedback")
	}

	detail, err := s.repo.FindDetailByID(ctx, reportID)
	if err != nil {
		return nil, storageError(err, "failed to load report detail")
	}
	return detail, nil
}

// Export renders the caller's visible reports as CSV or PDF.
func (s *ReportService) Export(ctx context.Context, id scope.Identity, format string) (*ExportResult, error) {
	reports, err := s.List(ctx, id)
	if err != nil {
		return nil, err
	}

	dataset := reportDataset(reports)
	stamp := time.Now().UTC().Format("2006-01-02")
	switch format {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: fmt.Sprintf("lecture-reports-%s.csv", stamp)}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "Lecture Reports")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: fmt.Sprintf("lecture-reports-%s.pdf", stamp)}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

func reportDataset(reports []models.LectureReportDetail) export.Dataset {
	headers := []string{"Date", "Week", "Course", "Code", "Class", "Faculty", "Lecturer", "Present", "Registered", "Topic"}
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]string{
			"Date":       r.DateOfLecture.Format("2006-01-02"),
			"Week":       r.WeekOfReporting,
			"Course":     r.CourseName,
			"Code":       r.CourseCode,
			"Class":      r.ClassName,
			"Faculty":    r.FacultyName,
			"Lecturer":   r.LecturerName,
			"Present":    strconv.Itoa(r.ActualNumberPresent),
			"Registered": strconv.Itoa(r.TotalRegistered),
			"Topic":      r.TopicTaught,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
