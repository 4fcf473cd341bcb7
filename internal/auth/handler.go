package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auditlog"
)

type Handler struct {
	service  Service
	auditSvc auditlog.Service
}

func NewHandler(service Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

type registerRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role"`
	EmailConsent bool   `json:"email_consent"`
}

// Register - POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := c.ClientIP()

	member, err := h.service.Register(RegisterInput{
		FullName:     input.FullName,
		Email:        input.Email,
		Password:     input.Password,
		Role:         input.Role,
		EmailConsent: input.EmailConsent,
	})
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), nil, nil, "MEMBER_REGISTERED",
			map[string]interface{}{"email": input.Email, "error": err.Error()}, ip, "failure")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "MEMBER_REGISTERED",
		map[string]interface{}{"email": member.Email, "role": member.Role}, ip, "success")

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login - POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ip := c.ClientIP()

	tokens, member, err := h.service.Login(LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		h.auditSvc.LogAction(c.Request.Context(), nil, nil, "MEMBER_LOGIN",
			map[string]interface{}{"email": input.Email, "error": err.Error()}, ip, "failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.auditSvc.LogAction(c.Request.Context(), &member.ID, nil, "MEMBER_LOGIN",
		map[string]interface{}{"email": member.Email}, ip, "success")

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "member": member})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh - POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var input refreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	accessToken, err := h.service.Refresh(input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword - POST /auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var input forgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// Respond the same whether or not the account exists.
	_ = h.service.RequestPasswordReset(input.Email)

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword - POST /auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var input resetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.service.ResetPassword(input.Token, input.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Logout - POST /auth/logout. JWTs are stateless, the client clears tokens.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
