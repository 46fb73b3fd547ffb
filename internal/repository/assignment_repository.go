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

// AssignmentRepository persists course-lecturer assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentDetailSelect = `SELECT a.id, a.course_id, a.lecturer_id,
        c.course_name, c.course_code, u.name AS lecturer_name, u.email AS lecturer_email
        FROM lecture_assignments a
        JOIN courses c ON c.id = a.course_id
        JOIN users u ON u.id = a.lecturer_id`

// ListVisible returns assignments joined with course and lecturer
// identity for the caller, ordered by course name.
func (r *AssignmentRepository) ListVisible(ctx context.Context, id scope.Identity) ([]models.LectureAssignmentDetail, error) {
	clause, err := scope.For(scope.Assignments, id, 1)
	if err != nil {
		return nil, err
	}

	query := assignmentDetailSelect
	if clause.Join != "" {
		query += " " + clause.Join
	}
	if clause.Where != "" {
		query += " WHERE " + clause.Where
	}
	query += " " + scope.OrderBy(scope.Assignments)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var assignments []models.LectureAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindDetailByID returns an assignment with its joined course and
// lecturer identity.
func (r *AssignmentRepository) FindDetailByID(ctx context.Context, id string) (*models.LectureAssignmentDetail, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = assignmentDetailSelect + " WHERE a.id = $1"
	var detail models.LectureAssignmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new assignment. The (course_id, lecturer_id) unique
// constraint rejects concurrent duplicates.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.LectureAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = `INSERT INTO lecture_assignments (id, course_id, lecturer_id, created_at)
        VALUES (:id, :course_id, :lecturer_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "lecturer already assigned to this course")
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment by ID.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = "DELETE FROM lecture_assignments WHERE id = $1"
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
