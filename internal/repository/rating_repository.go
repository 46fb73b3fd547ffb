package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

// RatingRepository handles persistence of course ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// ListVisible returns ratings visible to the caller, most recent first.
// Student names are only joined for staff roles; students see their own
// rows without the redundant self-reference.
func (r *RatingRepository) ListVisible(ctx context.Context, id scope.Identity) ([]models.RatingDetail, error) {
	clause, err := scope.For(scope.Ratings, id, 1)
	if err != nil {
		return nil, err
	}

	studentName := "u.name"
	if id.Role == models.RoleStudent {
		studentName = "''"
	}
	query := fmt.Sprintf(`SELECT rt.id, rt.student_id, rt.course_id, rt.score, rt.feedback, rt.created_at,
        c.course_name, c.class_name, c.faculty_name, %s AS student_name
        FROM ratings rt
        JOIN courses c ON c.id = rt.course_id
        JOIN users u ON u.id = rt.student_id`, studentName)
	if clause.Join != "" {
		query += " " + clause.Join
	}
	if clause.Where != "" {
		query += " WHERE " + clause.Where
	}
	query += " " + scope.OrderBy(scope.Ratings)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var ratings []models.RatingDetail
	if err := r.db.SelectContext(ctx, &ratings, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Exists checks whether the student has already rated the course.
func (r *RatingRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = "SELECT 1 FROM ratings WHERE student_id = $1 AND course_id = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check rating: %w", err)
	}
	return true, nil
}

// Create persists a new rating. When the one-rating-per-course index is
// installed, concurrent duplicates surface as a conflict.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = `INSERT INTO ratings (id, student_id, course_id, score, feedback, created_at)
        VALUES (:id, :student_id, :course_id, :score, :feedback, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "course already rated")
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}
