package event

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

func callerFromContext(c *gin.Context) *auth.Member {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		return nil
	}
	return &member
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}

// List godoc
// @Summary List events
// @Description Events visible to the caller, annotated with remaining capacity and the caller's own RSVP.
// @Tags events
// @Produce json
// @Param type query string false "Event type"
// @Param start_date query string false "Earliest start time"
// @Param end_date query string false "Latest start time"
// @Param search query string false "Title/description substring"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *Handler) List(c *gin.Context) {
	search := c.Query("search")
	if len(search) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search must be at most 100 characters"})
		return
	}

	query := ListQuery{
		Type:      c.Query("type"),
		StartDate: parseDate(c.Query("start_date")),
		EndDate:   parseDate(c.Query("end_date")),
		Search:    search,
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		query.Offset = offset
	}

	events, total, err := h.service.ListEvents(c.Request.Context(), callerFromContext(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "total": total})
}

// Get - GET /events/:id
func (h *Handler) Get(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	meta, err := h.service.GetEvent(c.Request.Context(), callerFromContext(c), eventID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": meta})
}

type createEventRequest struct {
	Event          EventForm   `json:"event"`
	VolunteerSlots []SlotInput `json:"volunteer_slots"`
}

// Create - POST /events (board and admin only)
func (h *Handler) Create(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input createEventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	ev, err := h.service.CreateEvent(c.Request.Context(), member, input.Event, input.VolunteerSlots)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": input.Event.Title, "error": err.Error()}, ip, "failure")

		var vErr *ValidationError
		switch {
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data", "fields": vErr.Fields})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &ev.ID, "EVENT_CREATED",
		map[string]interface{}{"title": ev.Title, "visibility": ev.Visibility}, ip, "success")

	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

// Update - PUT /events/:id
func (h *Handler) Update(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	var form EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	ev, err := h.service.UpdateEvent(c.Request.Context(), member, eventID, form)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "EVENT_UPDATED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")

		var vErr *ValidationError
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data", "fields": vErr.Fields})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &ev.ID, "EVENT_UPDATED",
		map[string]interface{}{"title": ev.Title}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// Delete - DELETE /events/:id
func (h *Handler) Delete(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.service.DeleteEvent(c.Request.Context(), member, eventID); err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "EVENT_DELETED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &eventID, "EVENT_DELETED", nil, ip, "success")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
