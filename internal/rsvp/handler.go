package rsvp

import (
	"errors"
	"net/http"

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

// Upsert godoc
// @Summary RSVP to an event
// @Description Creates or updates the caller's RSVP. Repeat submissions update the existing row.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body Input true "RSVP"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvp [post]
func (h *Handler) Upsert(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to RSVP"})
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
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "RSVP_SUBMITTED",
			map[string]interface{}{"status": input.Status, "error": err.Error()}, ip, "failure")

		var vErr *ValidationError
		switch {
		case errors.Is(err, ErrNotAMember), errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid RSVP data", "fields": vErr.Fields})
		case errors.Is(err, ErrRSVPNotRequired),
			errors.Is(err, ErrEventStarted),
			errors.Is(err, ErrGuestsNotAllowed),
			errors.Is(err, ErrEventFull):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save RSVP"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "RSVP_SUBMITTED",
		map[string]interface{}{"status": row.Status, "guest_count": row.GuestCount}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"rsvp": row})
}

// Remove godoc
// @Summary Remove an RSVP
// @Description Deletes the caller's RSVP for the event. Succeeds even when no RSVP exists.
// @Tags rsvp
// @Produce json
// @Param id path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /events/{id}/rsvp [delete]
func (h *Handler) Remove(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to RSVP"})
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.service.Remove(c.Request.Context(), member.ID, eventID); err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "RSVP_REMOVED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove RSVP"})
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "RSVP_REMOVED", nil, ip, "success")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
