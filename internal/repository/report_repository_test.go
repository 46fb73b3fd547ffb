package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
)

func TestReportRepositoryListVisibleLecturer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "course_id", "faculty_name", "class_name", "week_of_reporting",
		"date_of_lecture", "lecturer_id", "lecturer_name", "actual_number_present", "total_registered",
		"venue", "scheduled_lecture_time", "topic_taught", "learning_outcomes",
		"lecturer_recommendations", "prl_feedback", "created_at",
		"course_name", "course_code", "course_class_name", "course_faculty_name",
	}).AddRow(
		"r1", "c1", "FICT", "BSCITY2S1", "Week 6",
		time.Now(), "l1", "Dr. Mokoena", 38, 45,
		"MM4", "08:30", "REST API design", "Students can design endpoints",
		"", nil, time.Now(),
		"Web Application Development", "DIWA2110", "BSCITY2S1", "FICT",
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.lecturer_id = $1 ORDER BY r.date_of_lecture DESC, r.id ASC")).
		WithArgs("l1").
		WillReturnRows(rows)

	reports, err := repo.ListVisible(context.Background(), scope.Identity{ID: "l1", Role: models.RoleLecturer})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Web Application Development", reports[0].CourseName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryFindDetailVisibleAppliesCallerScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{"id", "course_id", "lecturer_id", "lecturer_name", "topic_taught"}).
		AddRow("r1", "c1", "l1", "Dr. Mokoena", "REST API design")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1 AND r.lecturer_id = $2")).
		WithArgs("r1", "l1").
		WillReturnRows(rows)

	detail, err := repo.FindDetailVisible(context.Background(), scope.Identity{ID: "l1", Role: models.RoleLecturer}, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", detail.ID)
	require.NoError(t, mock.ExpectationsWereMet())

	// out-of-scope rows surface as sql.ErrNoRows
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1 AND r.lecturer_id = $2")).
		WithArgs("r1", "l2").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindDetailVisible(context.Background(), scope.Identity{ID: "l2", Role: models.RoleLecturer}, "r1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCreateWithCourseIsTransactional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lecture_reports")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report := &models.LectureReport{LecturerID: "l1", LecturerName: "Dr. Mokoena", TopicTaught: "REST API design"}
	course := &models.Course{CourseName: "Web Application Development", CourseCode: "DIWA2110"}
	require.NoError(t, repo.CreateWithCourse(context.Background(), report, course))
	assert.Equal(t, course.ID, report.CourseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCreateWithCourseRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lecture_reports")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreateWithCourse(context.Background(), &models.LectureReport{}, &models.Course{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateFeedback(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lecture_reports SET prl_feedback = $2 WHERE id = $1")).
		WithArgs("r1", "good coverage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateFeedback(context.Background(), "r1", "good coverage"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lecture_reports")).
		WithArgs("missing", "x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFeedback(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
