package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "c.id, c.faculty_name, c.class_name, c.course_name, c.course_code, c.venue, c.scheduled_time, c.total_registered, c.created_at"

// ListVisible returns the courses the caller may see. The program-leader
// view folds assigned lecturer names into one sorted, comma-separated
// string per course; other roles receive an empty aggregate.
func (r *CourseRepository) ListVisible(ctx context.Context, id scope.Identity) ([]models.CourseWithLecturers, error) {
	clause, err := scope.For(scope.Courses, id, 1)
	if err != nil {
		return nil, err
	}

	var query string
	if id.Role == models.RolePL {
		query = `SELECT ` + courseColumns + `,
        COALESCE(STRING_AGG(u.name, ', ' ORDER BY u.name), '') AS lecturers
        FROM courses c
        LEFT JOIN lecture_assignments la ON la.course_id = c.id
        LEFT JOIN users u ON u.id = la.lecturer_id
        GROUP BY c.id ` + scope.OrderBy(scope.Courses)
	} else {
		query = "SELECT " + courseColumns + ", '' AS lecturers FROM courses c"
		if clause.Join != "" {
			query += " " + clause.Join
		}
		if clause.Where != "" {
			query += " WHERE " + clause.Where
		}
		query += " " + scope.OrderBy(scope.Courses)
	}

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var courses []models.CourseWithLecturers
	if err := r.db.SelectContext(ctx, &courses, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListClasses returns the caller's visible courses ordered by class name.
func (r *CourseRepository) ListClasses(ctx context.Context, id scope.Identity) ([]models.Course, error) {
	clause, err := scope.For(scope.Courses, id, 1)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + courseColumns + " FROM courses c"
	if clause.Join != "" {
		query += " " + clause.Join
	}
	if clause.Where != "" {
		query += " WHERE " + clause.Where
	}
	query += " ORDER BY c.class_name ASC, c.id ASC"

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return courses, nil
}

// ListAvailable returns courses the student has not yet enrolled in.
func (r *CourseRepository) ListAvailable(ctx context.Context, studentID string) ([]models.Course, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = `SELECT ` + courseColumns + ` FROM courses c
        WHERE c.id NOT IN (SELECT course_id FROM enrollments WHERE student_id = $1)
        ORDER BY c.course_name ASC, c.id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = "SELECT " + courseColumns + " FROM courses c WHERE c.id = $1"
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = `INSERT INTO courses (id, faculty_name, class_name, course_name, course_code, venue, scheduled_time, total_registered, created_at)
        VALUES (:id, :faculty_name, :class_name, :course_name, :course_code, :venue, :scheduled_time, :total_registered, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}
