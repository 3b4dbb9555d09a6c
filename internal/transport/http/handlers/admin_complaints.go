package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
	"github.com/chiragtiwari115/CityPulse/internal/usecase"
)

// AdminComplaintHandler exposes the administrative complaint endpoints.
type AdminComplaintHandler struct {
	complaints *usecase.ComplaintService
}

// NewAdminComplaintHandler constructs AdminComplaintHandler.
func NewAdminComplaintHandler(complaints *usecase.ComplaintService) *AdminComplaintHandler {
	return &AdminComplaintHandler{complaints: complaints}
}

// RegisterRoutes binds admin routes. The group must already require an
// admin session.
func (h *AdminComplaintHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.PUT("/:id/status", h.updateStatus)
}

func (h *AdminComplaintHandler) list(c *gin.Context) {
	var filter usecase.AdminFilter

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.ComplaintStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category := domain.ComplaintCategory(strings.ToUpper(raw))
		filter.Category = &category
	}
	if raw := strings.TrimSpace(c.Query("severity")); raw != "" {
		severity := domain.ComplaintSeverity(strings.ToUpper(raw))
		filter.Severity = &severity
	}

	page, err := h.complaints.ListForAdmin(c.Request.Context(), filter, parsePageRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "complaint listing failed")
		return
	}

	c.JSON(http.StatusOK, toComplaintPageResponse(page))
}

func (h *AdminComplaintHandler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	adminID := middleware.CurrentUserID(c)
	status := domain.ComplaintStatus(strings.ToUpper(strings.TrimSpace(req.Status)))

	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), c.Param("id"), adminID, status, req.Notes)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "complaint not found"},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "status update failed")
		return
	}

	c.JSON(http.StatusOK, toComplaintResponse(complaint))
}
