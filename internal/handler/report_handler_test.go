package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/luct-reporting/reporting-api/internal/middleware"
	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	"github.com/luct-reporting/reporting-api/internal/service"
)

type reportRepoMock struct {
	reports map[string]*models.LectureReportDetail
	listed  []models.LectureReportDetail
}

func (m *reportRepoMock) ListVisible(ctx context.Context, id scope.Identity) ([]models.LectureReportDetail, error) {
	return m.listed, nil
}

func (m *reportRepoMock) FindDetailByID(ctx context.Context, id string) (*models.LectureReportDetail, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *reportRepoMock) FindDetailVisible(ctx context.Context, id scope.Identity, reportID string) (*models.LectureReportDetail, error) {
	if _, err := scope.For(scope.Reports, id, 1); err != nil {
		return nil, err
	}
	r, err := m.FindDetailByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if id.Role == models.RoleLecturer && r.LecturerID != id.ID {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *reportRepoMock) Create(ctx context.Context, report *models.LectureReport) error {
	if report.ID == "" {
		report.ID = "r-created"
	}
	if m.reports == nil {
		m.reports = make(map[string]*models.LectureReportDetail)
	}
	m.reports[report.ID] = &models.LectureReportDetail{LectureReport: *report}
	return nil
}

func (m *reportRepoMock) CreateWithCourse(ctx context.Context, report *models.LectureReport, course *models.Course) error {
	course.ID = "c-created"
	report.CourseID = course.ID
	return m.Create(ctx, report)
}

func (m *reportRepoMock) UpdateFeedback(ctx context.Context, id, feedback string) error {
	r, ok := m.reports[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.PRLFeedback = &feedback
	return nil
}

type courseReaderMock struct {
	courses map[string]*models.Course
}

func (m *courseReaderMock) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newReportHandler(repo *reportRepoMock, courses *courseReaderMock) *ReportHandler {
	svc := service.NewReportService(repo, courses, nil, nil, nil)
	return NewReportHandler(svc)
}

func validReportPayload() []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"course_id":             "c1",
		"faculty_name":          "FICT",
		"class_name":            "BSCITY2S1",
		"week_of_reporting":     "Week 6",
		"date_of_lecture":       "2026-03-09T00:00:00Z",
		"actual_number_present": 38,
		"topic_taught":          "REST API design",
	})
	return payload
}

func TestReportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &reportRepoMock{}
	courses := &courseReaderMock{courses: map[string]*models.Course{"c1": {ID: "c1", TotalRegistered: 45}}}
	handler := newReportHandler(repo, courses)

	c, w := newGinContext(http.MethodPost, "/reports", validReportPayload())
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "l1", Name: "Dr. Mokoena", Role: models.RoleLecturer})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.reports, 1)
	require.Equal(t, "Dr. Mokoena", repo.reports["r-created"].LecturerName)
}

func TestReportHandlerCreateForbiddenForStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&reportRepoMock{}, &courseReaderMock{})

	c, w := newGinContext(http.MethodPost, "/reports", validReportPayload())
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	handler.Create(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportHandlerCreateUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&reportRepoMock{}, &courseReaderMock{})

	c, w := newGinContext(http.MethodPost, "/reports", validReportPayload())
	handler.Create(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &reportRepoMock{reports: map[string]*models.LectureReportDetail{
		"r1": {LectureReport: models.LectureReport{ID: "r1", TopicTaught: "REST API design"}},
	}}
	handler := newReportHandler(repo, &courseReaderMock{})

	c, w := newGinContext(http.MethodGet, "/reports/r1", nil)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/reports/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &reportRepoMock{listed: []models.LectureReportDetail{
		{LectureReport: models.LectureReport{ID: "r1", TopicTaught: "REST API design"}, CourseName: "Web Application Development"},
	}}
	handler := newReportHandler(repo, &courseReaderMock{})

	c, w := newGinContext(http.MethodGet, "/reports/export?format=csv", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "l1", Role: models.RoleLecturer})

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, w.Body.String(), "Web Application Development")
}

func TestReportHandlerFeedback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &reportRepoMock{reports: map[string]*models.LectureReportDetail{
		"r1": {LectureReport: models.LectureReport{ID: "r1"}},
	}}
	handler := newReportHandler(repo, &courseReaderMock{})

	payload, _ := json.Marshal(map[string]string{"feedback": "good coverage"})
	c, w := newGinContext(http.MethodPut, "/reports/r1/feedback", payload)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "p1", Role: models.RolePRL, Faculty: "FICT"})

	handler.Feedback(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.reports["r1"].PRLFeedback)
	require.Equal(t, "good coverage", *repo.reports["r1"].PRLFeedback)
}
