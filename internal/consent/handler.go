package consent

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

type updateConsentRequest struct {
	ConsentType string `json:"consent_type" binding:"required"`
	Granted     bool   `json:"granted"`
}

// Update - PUT /consent
func (h *Handler) Update(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input updateConsentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	record, err := h.service.Record(c.Request.Context(), member.ID, input.ConsentType, input.Granted, ip)
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "CONSENT_UPDATED",
			map[string]interface{}{"consent_type": input.ConsentType, "error": err.Error()}, ip, "failure")
		if errors.Is(err, ErrInvalidConsentType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record consent"})
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, &record.ID, "CONSENT_UPDATED",
		map[string]interface{}{"consent_type": record.ConsentType, "granted": record.Granted}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"consent": record})
}

// History - GET /consent
func (h *Handler) History(c *gin.Context) {
	member, ok := middleware.MemberFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	records, err := h.service.History(c.Request.Context(), member.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch consent records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consents": records})
}
