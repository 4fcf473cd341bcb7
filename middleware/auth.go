package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brookfield-ptsa/ptsa-backend/config"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

// AuthMiddleware validates the bearer token and loads the member into context.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := memberFromRequest(c, cfg, authSvc)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		c.Set("member", member)
		c.Set("member_id", member.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the member when a valid token is present but
// never rejects the request. Handlers that serve both anonymous and
// authenticated callers read "member" from context and branch themselves.
func OptionalAuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if member, ok := memberFromRequest(c, cfg, authSvc); ok {
			c.Set("member", member)
			c.Set("member_id", member.ID)
		}
		c.Next()
	}
}

func memberFromRequest(c *gin.Context, cfg *config.Config, authSvc auth.Service) (auth.Member, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return auth.Member{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return auth.Member{}, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTAccessSecret), nil
	})
	if err != nil || !token.Valid {
		return auth.Member{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Member{}, false
	}

	memberID, ok := claims["user_id"].(string)
	if !ok || memberID == "" {
		return auth.Member{}, false
	}

	member, err := authSvc.GetMemberByID(memberID)
	if err != nil {
		return auth.Member{}, false
	}

	return member, true
}

// MemberFromContext returns the authenticated member, if any.
func MemberFromContext(c *gin.Context) (auth.Member, bool) {
	val, exists := c.Get("member")
	if !exists {
		return auth.Member{}, false
	}
	member, ok := val.(auth.Member)
	return member, ok
}
