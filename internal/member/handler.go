package member

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
	"github.com/brookfield-ptsa/ptsa-backend/middleware"
)

type Handler struct {
	service  Service
	auditSvc auditlog.Service
}

func NewHandler(service Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

// GetMe - GET /members/me
func (h *Handler) GetMe(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), member.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": profile})
}

// UpdateMe - PUT /members/me
func (h *Handler) UpdateMe(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	updated, err := h.service.UpdateProfile(c.Request.Context(), member.ID, input)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "PROFILE_UPDATED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		switch {
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "PROFILE_UPDATED",
		map[string]interface{}{"full_name": updated.FullName, "email_consent": updated.EmailConsent}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"member": updated})
}

// GetDirectory - GET /members (board and admin only)
func (h *Handler) GetDirectory(c *gin.Context) {
	filter := DirectoryFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}

	result, err := h.service.Directory(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole - PUT /members/:id/role (admin only)
func (h *Handler) UpdateRole(c *gin.Context) {
	actor, _ := middleware.MemberFromContext(c)
	targetID := c.Param("id")

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.service.UpdateRole(c.Request.Context(), targetID, input.Role); err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &actor.ID, &targetID, "ROLE_UPDATED",
			map[string]interface{}{"role": input.Role, "error": err.Error()}, ip, "failure")
		switch {
		case errors.Is(err, ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &actor.ID, &targetID, "ROLE_UPDATED",
		map[string]interface{}{"role": input.Role}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "member_id": targetID, "role": input.Role})
}
