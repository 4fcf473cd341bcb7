package volunteer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/middleware"
)

type Handler struct {
	service  *Service
	auditSvc auditlog.Service
}

func NewHandler(service *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

// ListSlots - GET /events/:id/volunteer
func (h *Handler) ListSlots(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	var caller *auth.Member
	if member, ok := middleware.MemberFromContext(c); ok {
		caller = &member
	}

	slots, err := h.service.ListSlots(c.Request.Context(), caller, eventID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch volunteer slots"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// Upsert godoc
// @Summary Sign up for a volunteer slot
// @Description Creates or updates the caller's signup. The slot must belong to the event in the path.
// @Tags volunteer
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body Input true "Signup"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/volunteer [post]
func (h *Handler) Upsert(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to volunteer"})
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	var input Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	row, err := h.service.Upsert(c.Request.Context(), member, eventID, input)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "VOLUNTEER_SIGNUP",
			map[string]interface{}{"slot_id": input.SlotID, "error": err.Error()}, ip, "failure")

		var vErr *ValidationError
		var fullErr *SlotFullError
		switch {
		case errors.Is(err, ErrNotAMember), errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup data", "fields": vErr.Fields})
		case errors.As(err, &fullErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": fullErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save signup"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "VOLUNTEER_SIGNUP",
		map[string]interface{}{"slot_id": row.SlotID, "quantity": row.Quantity}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"signup": row})
}

// Remove godoc
// @Summary Withdraw from a volunteer slot
// @Description Deletes the caller's signup. Succeeds even when no signup exists.
// @Tags volunteer
// @Produce json
// @Param id path string true "Event ID"
// @Param slot_id query string true "Slot ID"
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/volunteer [delete]
func (h *Handler) Remove(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to volunteer"})
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	slotID := c.Query("slot_id")
	if slotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot ID is required"})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.service.Remove(c.Request.Context(), member.ID, eventID, slotID); err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "VOLUNTEER_WITHDRAWN",
			map[string]interface{}{"slot_id": slotID, "error": err.Error()}, ip, "failure")
		if errors.Is(err, ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove signup"})
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "VOLUNTEER_WITHDRAWN",
		map[string]interface{}{"slot_id": slotID}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
