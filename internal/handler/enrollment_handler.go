package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-reporting/reporting-api/internal/service"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
	"github.com/luct-reporting/reporting-api/pkg/response"
)

// EnrollmentHandler wires HTTP endpoints to the enrollment service.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Enroll registers the caller into a course.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	id, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, enrollment, "enrolled successfully")
}

// Unenroll removes the caller's enrollment in the course.
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Unenroll(c.Request.Context(), id, c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nil, "unenrolled successfully")
}

// ListOwn returns the courses the caller is enrolled in.
func (h *EnrollmentHandler) ListOwn(c *gin.Context) {
	id, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.service.ListOwn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses)
}
