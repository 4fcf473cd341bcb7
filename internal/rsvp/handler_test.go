package rsvp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
)

type noopAudit struct{}

func (noopAudit) LogAction(ctx context.Context, userID *string, targetID *string, action string, details map[string]interface{}, ip string, status string) error {
	return nil
}

func (noopAudit) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (noopAudit) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func testContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestUpsert_RequiresLogin(t *testing.T) {
	h := NewHandler(nil, noopAudit{})

	c, w := testContext(http.MethodPost, `{"status":"attending"}`)
	h.Upsert(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You must be logged in to RSVP")
}

func TestRemove_RequiresLogin(t *testing.T) {
	h := NewHandler(nil, noopAudit{})

	c, w := testContext(http.MethodDelete, "")
	h.Remove(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You must be logged in to RSVP")
}

func TestRemove_RequiresEventID(t *testing.T) {
	h := NewHandler(nil, noopAudit{})

	c, w := testContext(http.MethodDelete, "")
	c.Set("member", member("me"))
	h.Remove(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Event ID is required")
}
