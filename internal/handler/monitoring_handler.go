package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-reporting/reporting-api/internal/service"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
	"github.com/luct-reporting/reporting-api/pkg/response"
)

// MonitoringHandler wires HTTP endpoints to the monitoring service.
type MonitoringHandler struct {
	service *service.MonitoringService
}

// NewMonitoringHandler creates a new handler.
func NewMonitoringHandler(svc *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{service: svc}
}

// List returns the attendance monitoring rows visible to the caller.
func (h *MonitoringHandler) List(c *gin.Context) {
	id, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rows, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows)
}
