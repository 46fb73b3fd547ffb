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

type assignmentRepository interface {
	ListVisible(ctx context.Context, id scope.Identity) ([]models.LectureAssignmentDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.LectureAssignmentDetail, error)
	Create(ctx context.Context, assignment *models.LectureAssignment) error
	Delete(ctx context.Context, id string) error
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AssignRequest describes the assignment payload.
type AssignRequest struct {
	CourseID   string `json:"course_id" validate:"required"`
	LecturerID string `json:"lecturer_id" validate:"required"`
}

// AssignmentService manages course-lecturer assignments, program-leader
// only.
type AssignmentService struct {
	repo      assignmentRepository
	courses   courseReader
	users     userReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseReader, users userReader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, courses: courses, users: users, validator: validate, logger: logger}
}

// List returns all assignments with joined course and lecturer identity.
// Non-PL callers are denied by the scope policy, never handed an empty
// list.
func (s *AssignmentService) List(ctx context.Context, id scope.Identity) ([]models.LectureAssignmentDetail, error) {
	assignments, err := s.repo.ListVisible(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list assignments")
	}
	return assignments, nil
}

// Assign links a lecturer to a course.
func (s *AssignmentService) Assign(ctx context.Context, id scope.Identity, req AssignRequest) (*models.LectureAssignmentDetail, error) {
	if id.Role != models.RolePL {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders can assign lecturers")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, storageError(err, "failed to load course")
	}
	lecturer, err := s.users.FindByID(ctx, req.LecturerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, storageError(err, "failed to load lecturer")
	}
	if lecturer.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assigned user is not a lecturer")
	}

	assignment := &models.LectureAssignment{CourseID: req.CourseID, LecturerID: req.LecturerID}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, storageError(err, "failed to create assignment")
	}

	detail, err := s.repo.FindDetailByID(ctx, assignment.ID)
	if err != nil {
		return nil, storageError(err, "failed to load assignment detail")
	}
	s.logger.Info("lecturer assigned",
		zap.String("assignment_id", assignment.ID),
		zap.String("course_id", req.CourseID),
		zap.String("lecturer_id", req.LecturerID))
	return detail, nil
}

// Unassign deletes an assignment and returns the joined record as it
// existed immediately before deletion. The read happens before the
// delete; the payload is never reconstructed afterwards.
func (s *AssignmentService) Unassign(ctx context.Context, id scope.Identity, assignmentID string) (*models.LectureAssignmentDetail, error) {
	if id.Role != models.RolePL {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders can unassign lecturers")
	}

	detail, err := s.repo.FindDetailByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, storageError(err, "failed to load assignment")
	}

	if err := s.repo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, storageError(err, "failed to delete assignment")
	}

	s.logger.Info("lecturer unassigned", zap.String("assignment_id", assignmentID))
	return detail, nil
}
