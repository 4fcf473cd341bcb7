package announcement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
	"github.com/brookfield-ptsa/ptsa-backend/middleware"
)

type Handler struct {
	service  *Service
	auditSvc auditlog.Service
}

func NewHandler(service *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

// Publish - POST /announcements (board and admin only)
func (h *Handler) Publish(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input PublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	row, err := h.service.Publish(c.Request.Context(), member, input)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "ANNOUNCEMENT_PUBLISHED",
			map[string]interface{}{"title": input.Title, "error": err.Error()}, ip, "failure")
		switch {
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAnnouncementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &row.ID, "ANNOUNCEMENT_PUBLISHED",
		map[string]interface{}{"title": row.Title, "send_email": row.SendEmail}, ip, "success")

	c.JSON(http.StatusCreated, gin.H{"announcement": row})
}

// List - GET /announcements
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": rows, "total": total})
}

// Get - GET /announcements/:id
func (h *Handler) Get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcement": row})
}

// Delete - DELETE /announcements/:id (board and admin only)
func (h *Handler) Delete(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	announcementID := c.Param("id")
	ip := middleware.GetIPFromContext(c)

	if err := h.service.Delete(c.Request.Context(), member, announcementID); err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAnnouncementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &announcementID, "ANNOUNCEMENT_DELETED", nil, ip, "success")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
