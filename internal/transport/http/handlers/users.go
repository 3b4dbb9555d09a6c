package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
)

// UserHandler exposes the authenticated user's profile.
type UserHandler struct {
	users port.UserRepository
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users port.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user routes. The group must already require auth.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.me)
}

func (h *UserHandler) me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	c.JSON(http.StatusOK, toUserSummary(user.Sanitized()))
}
