package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
	"github.com/chiragtiwari115/CityPulse/internal/transport/http/middleware"
	"github.com/chiragtiwari115/CityPulse/internal/usecase"
)

// ComplaintHandler exposes the citizen complaint endpoints.
type ComplaintHandler struct {
	complaints *usecase.ComplaintService
}

// NewComplaintHandler constructs ComplaintHandler.
func NewComplaintHandler(complaints *usecase.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// RegisterRoutes binds complaint routes. The authed group must already
// require a session; the image route stays public so mail clients can
// render embedded links.
func (h *ComplaintHandler) RegisterRoutes(authed, public *gin.RouterGroup) {
	authed.POST("", h.submit)
	authed.GET("", h.listMine)
	authed.GET("/:id", h.get)
	public.GET("/:id/image", h.image)
}

// submit accepts a multipart form so the complaint fields and the optional
// image arrive in one request.
func (h *ComplaintHandler) submit(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "latitude must be a number"))
		return
	}
	longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "longitude must be a number"))
		return
	}

	input := usecase.SubmitComplaintInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Category:     domain.ComplaintCategory(strings.ToUpper(strings.TrimSpace(c.PostForm("category")))),
		Severity:     domain.ComplaintSeverity(strings.ToUpper(strings.TrimSpace(c.PostForm("severity")))),
		ContactName:  c.PostForm("contactName"),
		ContactPhone: c.PostForm("contactPhone"),
		ContactEmail: c.PostForm("contactEmail"),
		Address:      c.PostForm("address"),
		Latitude:     latitude,
		Longitude:    longitude,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unable to read image"))
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unable to read image"))
			return
		}

		input.Image = data
		input.ImageContentType = file.Header.Get("Content-Type")
		if input.ImageContentType == "" {
			input.ImageContentType = "application/octet-stream"
		}
	}

	complaint, err := h.complaints.Submit(c.Request.Context(), userID, input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: err.Error()},
			{Err: repository.ErrNotFound, Status: http.StatusUnauthorized, Message: "unknown reporter account"},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "complaint submission failed")
		return
	}

	c.JSON(http.StatusCreated, toComplaintResponse(complaint))
}

func (h *ComplaintHandler) listMine(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	page, err := h.complaints.ListForOwner(c.Request.Context(), userID, parsePageRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "complaint listing failed")
		return
	}

	c.JSON(http.StatusOK, toComplaintPageResponse(page))
}

func (h *ComplaintHandler) get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	complaint, err := h.complaints.GetForOwner(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "complaint not found"},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "complaint lookup failed")
		return
	}

	c.JSON(http.StatusOK, toComplaintResponse(complaint))
}

func (h *ComplaintHandler) image(c *gin.Context) {
	data, contentType, err := h.complaints.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "image not found"},
			{Err: repository.ErrUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
		}, http.StatusInternalServerError, "image lookup failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", imageFilename(c.Param("id"), contentType)))
	c.Data(http.StatusOK, contentType, data)
}

// imageFilename derives the download name from the stored content type.
// Unknown types get no extension.
func imageFilename(id, contentType string) string {
	name := "complaint-" + id
	switch contentType {
	case "image/jpeg":
		return name + ".jpg"
	case "image/png":
		return name + ".png"
	case "image/gif":
		return name + ".gif"
	case "image/webp":
		return name + ".webp"
	default:
		return name
	}
}

func parsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	return domain.PageRequest{Page: page, Size: size}
}
