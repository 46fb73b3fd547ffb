package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "faculty_name", "class_name", "course_name", "course_code", "venue", "scheduled_time", "total_registered", "created_at"})
}

func TestCourseRepositoryListVisiblePLAggregatesLecturers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	aggregated := sqlmock.NewRows([]string{"id", "faculty_name", "class_name", "course_name", "course_code", "venue", "scheduled_time", "total_registered", "created_at", "lecturers"}).
		AddRow("c1", "FICT", "BSCITY2S1", "Web Application Development", "DIWA2110", "MM4", "08:30", 45, time.Now(), "Dr. Mokoena, Ms. Tau")
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(STRING_AGG(u.name, ', ' ORDER BY u.name), '') AS lecturers")).
		WillReturnRows(aggregated)

	courses, err := repo.ListVisible(context.Background(), scope.Identity{ID: "pl1", Role: models.RolePL})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Dr. Mokoena, Ms. Tau", courses[0].Lecturers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListVisibleStudentScoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	rows := sqlmock.NewRows([]string{"id", "faculty_name", "class_name", "course_name", "course_code", "venue", "scheduled_time", "total_registered", "created_at", "lecturers"}).
		AddRow("c1", "FICT", "BSCITY2S1", "Web Application Development", "DIWA2110", "MM4", "08:30", 45, time.Now(), "")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN enrollments e ON e.course_id = c.id WHERE e.student_id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	courses, err := repo.ListVisible(context.Background(), scope.Identity{ID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListVisiblePRLWithoutFaculty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	_, err := repo.ListVisible(context.Background(), scope.Identity{ID: "p1", Role: models.RolePRL})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseRepositoryListAvailable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	rows := courseRows().AddRow("c2", "FICT", "BSCITY2S1", "Data Communications", "DC101", "MM5", "10:30", 40, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("NOT IN (SELECT course_id FROM enrollments WHERE student_id = $1)")).
		WithArgs("s1").
		WillReturnRows(rows)

	courses, err := repo.ListAvailable(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c2", courses[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{
		FacultyName: "FICT",
		ClassName:   "BSCITY2S1",
		CourseName:  "Web Application Development",
		CourseCode:  "DIWA2110",
	}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
