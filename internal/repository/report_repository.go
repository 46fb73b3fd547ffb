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
)

// ReportRepository handles persistence of lecture reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `r.id, r.course_id, r.faculty_name, r.class_name, r.week_of_reporting,
        r.date_of_lecture, r.lecturer_id, r.lecturer_name, r.actual_number_present, r.total_registered,
        r.venue, r.scheduled_lecture_time, r.topic_taught, r.learning_outcomes,
        r.lecturer_recommendations, r.prl_feedback, r.created_at`

const reportDetailSelect = `SELECT ` + reportColumns + `,
        c.course_name, c.course_code, c.class_name AS course_class_name, c.faculty_name AS course_faculty_name
        FROM lecture_reports r
        JOIN courses c ON c.id = r.course_id`

// ListVisible returns the reports visible to the caller, most recent
// lecture first.
func (r *ReportRepository) ListVisible(ctx context.Context, id scope.Identity) ([]models.LectureReportDetail, error) {
	clause, err := scope.For(scope.Reports, id, 1)
	if err != nil {
		return nil, err
	}

	query := reportDetailSelect
	if clause.Join != "" {
		query += " " + clause.Join
	}
	if clause.Where != "" {
		query += " WHERE " + clause.Where
	}
	query += " " + scope.OrderBy(scope.Reports)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var reports []models.LectureReportDetail
	if err := r.db.SelectContext(ctx, &reports, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// FindDetailByID returns a report joined with its course descriptors.
// Unscoped; used after a mutation the caller already authorized.
func (r *ReportRepository) FindDetailByID(ctx context.Context, id string) (*models.LectureReportDetail, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = reportDetailSelect + " WHERE r.id = $1"
	var detail models.LectureReportDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindDetailVisible returns a single report only when the caller's
// visibility predicate admits it. A report outside the caller's scope is
// indistinguishable from a missing one.
func (r *ReportRepository) FindDetailVisible(ctx context.Context, id scope.Identity, reportID string) (*models.LectureReportDetail, error) {
	clause, err := scope.For(scope.Reports, id, 2)
	if err != nil {
		return nil, err
	}

	query := reportDetailSelect
	if clause.Join != "" {
		query += " " + clause.Join
	}
	query += " WHERE r.id = $1"
	if clause.Where != "" {
		query += " AND " + clause.Where
	}
	args := append([]interface{}{reportID}, clause.Args...)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var detail models.LectureReportDetail
	if err := r.db.GetContext(ctx, &detail, query, args...); err != nil {
		return nil, err
	}
	return &detail, nil
}

const reportInsert = `INSERT INTO lecture_reports (
        id, course_id, faculty_name, class_name, week_of_reporting, date_of_lecture,
        lecturer_id, lecturer_name, actual_number_present, total_registered,
        venue, scheduled_lecture_time, topic_taught, learning_outcomes,
        lecturer_recommendations, prl_feedback, created_at
        ) VALUES (
        :id, :course_id, :faculty_name, :class_name, :week_of_reporting, :date_of_lecture,
        :lecturer_id, :lecturer_name, :actual_number_present, :total_registered,
        :venue, :scheduled_lecture_time, :topic_taught, :learning_outcomes,
        :lecturer_recommendations, :prl_feedback, :created_at)`

// Create persists a report referencing an existing course.
func (r *ReportRepository) Create(ctx context.Context, report *models.LectureReport) error {
	stampReport(report)
	ctx, cancel := queryContext(ctx)
	defer cancel()
	if _, err := r.db.NamedExecContext(ctx, reportInsert, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// CreateWithCourse provisions the course and the report in one
// transaction; either both rows exist afterwards or neither does.
func (r *ReportRepository) CreateWithCourse(ctx context.Context, report *models.LectureReport, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	report.CourseID = course.ID
	stampReport(report)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const courseInsert = `INSERT INTO courses (id, faculty_name, class_name, course_name, course_code, venue, scheduled_time, total_registered, created_at)
        VALUES (:id, :faculty_name, :class_name, :course_name, :course_code, :venue, :scheduled_time, :total_registered, :created_at)`
	if _, err := tx.NamedExecContext(ctx, courseInsert, course); err != nil {
		return fmt.Errorf("create course for report: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, reportInsert, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report transaction: %w", err)
	}
	return nil
}

// UpdateFeedback overwrites the PRL feedback on a report,
// last-writer-wins.
func (r *ReportRepository) UpdateFeedback(ctx context.Context, id, feedback string) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()
	const query = "UPDATE lecture_reports SET prl_feedback = $2 WHERE id = $1"
	result, err := r.db.ExecContext(ctx, query, id, feedback)
	if err != nil {
		return fmt.Errorf("update report feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check feedback rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func stampReport(report *models.LectureReport) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
}
