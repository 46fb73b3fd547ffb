package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, courseID string) error
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollRequest describes the enrollment payload.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// EnrollmentService handles student self-enrollment.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Enroll registers the calling student to a course. Duplicate pairs are
// rejected with a conflict; the storage unique constraint closes the gap
// between the check and the insert under concurrent requests.
func (s *EnrollmentService) Enroll(ctx context.Context, id scope.Identity, req EnrollRequest) (*models.Enrollment, error) {
	if id.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can enroll")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, storageError(err, "failed to load course")
	}

	exists, err := s.repo.Exists(ctx, id.ID, req.CourseID)
	if err != nil {
		return nil, storageError(err, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
	}

	enrollment := &models.Enrollment{StudentID: id.ID, CourseID: req.CourseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, storageError(err, "failed to create enrollment")
	}

	s.logger.Info("student enrolled", zap.String("student_id", id.ID), zap.String("course_id", req.CourseID))
	return enrollment, nil
}

// Unenroll removes the calling student's enrollment for the course.
func (s *EnrollmentService) Unenroll(ctx context.Context, id scope.Identity, courseID string) error {
	if id.Role != models.RoleStudent {
		return appErrors.Clone(appErrors.ErrForbidden, "only students can unenroll")
	}
	if err := s.repo.Delete(ctx, id.ID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return storageError(err, "failed to delete enrollment")
	}
	return nil
}

// ListOwn returns the courses the calling student is enrolled in.
func (s *EnrollmentService) ListOwn(ctx context.Context, id scope.Identity) ([]models.Course, error) {
	if id.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can view enrolled courses")
	}
	courses, err := s.repo.ListCoursesByStudent(ctx, id.ID)
	if err != nil {
		return nil, storageError(err, "failed to list enrolled courses")
	}
	return courses, nil
}
