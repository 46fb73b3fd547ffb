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

type ratingRepository interface {
	ListVisible(ctx context.Context, id scope.Identity) ([]models.RatingDetail, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, rating *models.Rating) error
}

// CreateRatingRequest carries a student's score for a course.
type CreateRatingRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Score    int    `json:"score" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// RatingService handles course ratings.
type RatingService struct {
	repo         ratingRepository
	courses      courseReader
	onePerCourse bool
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewRatingService constructs RatingService. When onePerCourse is set a
// student may rate each course at most once.
func NewRatingService(repo ratingRepository, courses courseReader, onePerCourse bool, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		repo:         repo,
		courses:      courses,
		onePerCourse: onePerCourse,
		validator:    validate,
		logger:       logger,
	}
}

// List returns the ratings visible to the caller, newest first.
func (s *RatingService) List(ctx context.Context, id scope.Identity) ([]models.RatingDetail, error) {
	ratings, err := s.repo.ListVisible(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list ratings")
	}
	return ratings, nil
}

// Create records a rating submitted by a student.
func (s *RatingService) Create(ctx context.Context, id scope.Identity, req CreateRatingRequest) (*models.Rating, error) {
	if id.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students can rate courses")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, storageError(err, "failed to load course")
	}

	if s.onePerCourse {
		exists, err := s.repo.Exists(ctx, id.ID, req.CourseID)
		if err != nil {
			return nil, storageError(err, "failed to check existing rating")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already rated")
		}
	}

	rating := &models.Rating{
		StudentID: id.ID,
		CourseID:  req.CourseID,
		Score:     req.Score,
		Feedback:  req.Feedback,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, storageError(err, "failed to create rating")
	}
	s.logger.Info("rating recorded",
		zap.String("student_id", id.ID),
		zap.String("course_id", req.CourseID),
		zap.Int("score", req.Score))
	return rating, nil
}
