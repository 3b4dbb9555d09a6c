package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
	"github.com/chiragtiwari115/CityPulse/internal/usecase"
)

// ErrorResponse represents a generic error payload with a correlation ID for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response with the request's correlation identifier.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: middleware.GetRequestID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the public view of a user returned by the API.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
	}
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by every endpoint that establishes a session.
type AuthResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      UserSummary `json:"user"`
}

func toAuthResponse(session usecase.SessionResult) AuthResponse {
	return AuthResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresIn: session.ExpiresIn,
		User:      toUserSummary(session.User),
	}
}

// ComplaintResponse describes a complaint as returned by the API.
type ComplaintResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	HasImage     bool      `json:"has_image"`
	Status       string    `json:"status"`
	StatusNotes  string    `json:"status_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toComplaintResponse(complaint domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:           complaint.ID,
		UserID:       complaint.UserID,
		Title:        complaint.Title,
		Description:  complaint.Description,
		Category:     string(complaint.Category),
		Severity:     string(complaint.Severity),
		ContactName:  complaint.ContactName,
		ContactPhone: complaint.ContactPhone,
		ContactEmail: complaint.ContactEmail,
		Address:      complaint.Address,
		Latitude:     complaint.Latitude,
		Longitude:    complaint.Longitude,
		HasImage:     complaint.HasImage(),
		Status:       string(complaint.Status),
		StatusNotes:  complaint.StatusNotes,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
	}
}

// ComplaintPageResponse is one page of a complaint listing.
type ComplaintPageResponse struct {
	Items      []ComplaintResponse `json:"items"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	TotalItems int64               `json:"total_items"`
	TotalPages int                 `json:"total_pages"`
}

func toComplaintPageResponse(page domain.ComplaintPage) ComplaintPageResponse {
	items := make([]ComplaintResponse, 0, len(page.Items))
	for _, complaint := range page.Items {
		items = append(items, toComplaintResponse(complaint))
	}

	return ComplaintPageResponse{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

// UpdateStatusRequest defines the payload for administrative status transitions.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}
