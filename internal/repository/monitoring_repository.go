package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
)

// MonitoringRepository projects lecture reports into dashboard rows. It
// reuses the report visibility predicates so the dashboard can never
// diverge from the report listing authorization.
type MonitoringRepository struct {
	db *sqlx.DB
}

// NewMonitoringRepository constructs the repository.
func NewMonitoringRepository(db *sqlx.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

// ListVisible returns monitoring rows visible to the caller, most recent
// lecture first.
func (r *MonitoringRepository) ListVisible(ctx context.Context, id scope.Identity) ([]models.MonitoringRow, error) {
	clause, err := scope.For(scope.Reports, id, 1)
	if err != nil {
		return nil, err
	}

	query := `SELECT r.id AS report_id, r.date_of_lecture, r.topic_taught, r.learning_outcomes,
        r.actual_number_present, r.total_registered, r.lecturer_name,
        c.course_name, c.class_name, c.faculty_name
        FROM lecture_reports r
        JOIN courses c ON c.id = r.course_id`
	if clause.Join != "" {
		query += " " + clause.Join
	}
	if clause.Where != "" {
		query += " WHERE " + clause.Where
	}
	query += " " + scope.OrderBy(scope.Reports)

	ctx, cancel := queryContext(ctx)
	defer cancel()
	var rows []models.MonitoringRow
	if err := r.db.SelectContext(ctx, &rows, query, clause.Args...); err != nil {
		return nil, fmt.Errorf("list monitoring rows: %w", err)
	}
	return rows, nil
}
