package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

type courseRepository interface {
	ListVisible(ctx context.Context, id scope.Identity) ([]models.CourseWithLecturers, error)
	ListClasses(ctx context.Context, id scope.Identity) ([]models.Course, error)
	ListAvailable(ctx context.Context, studentID string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

// CreateCourseRequest describes course creation payload. Optional fields
// default to empty strings and zero, never null, so aggregation stays
// total-order-safe downstream.
type CreateCourseRequest struct {
	FacultyName     string `json:"faculty_name" validate:"required"`
	ClassName       string `json:"class_name" validate:"required"`
	CourseName      string `json:"course_name" validate:"required"`
	CourseCode      string `json:"course_code" validate:"required"`
	Venue           string `json:"venue"`
	ScheduledTime   string `json:"scheduled_time"`
	TotalRegistered int    `json:"total_registered" validate:"gte=0"`
}

// CourseService handles course listings and program-leader course
// creation.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns the role-scoped course view, course name ascending.
func (s *CourseService) List(ctx context.Context, id scope.Identity) ([]models.CourseWithLecturers, error) {
	courses, err := s.repo.ListVisible(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list courses")
	}
	return courses, nil
}

// ListClasses returns the caller's visible courses ordered by class name.
// Students have no class view.
func (s *CourseService) ListClasses(ctx context.Context, id scope.Identity) ([]models.Course, error) {
	switch id.Role {
	case models.RoleLecturer, models.RolePRL, models.RolePL:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "access denied")
	}
	classes, err := s.repo.ListClasses(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list classes")
	}
	return classes, nil
}

// ListAvailable returns the courses a student may still enroll in.
func (s *CourseService) ListAvailable(ctx context.Context, id scope.Identity) ([]models.Course, error) {
	if id.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can access available courses")
	}
	courses, err := s.repo.ListAvailable(ctx, id.ID)
	if err != nil {
		return nil, storageError(err, "failed to list available courses")
	}
	return courses, nil
}

// Create adds a course, program-leader only.
func (s *CourseService) Create(ctx context.Context, id scope.Identity, req CreateCourseRequest) (*models.Course, error) {
	if id.Role != models.RolePL {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders can add courses")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		FacultyName:     req.FacultyName,
		ClassName:       req.ClassName,
		CourseName:      req.CourseName,
		CourseCode:      req.CourseCode,
		Venue:           req.Venue,
		ScheduledTime:   req.ScheduledTime,
		TotalRegistered: req.TotalRegistered,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, storageError(err, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("created_by", id.ID))
	return course, nil
}
