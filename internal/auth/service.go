package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/config"
	"github.com/brookfield-ptsa/ptsa-backend/utils"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(input RegisterInput) (*Member, error)
	Login(input LoginInput) (*TokenPair, *Member, error)
	Refresh(refreshToken string) (string, error)
	GetMemberByID(id string) (Member, error)

	RequestPasswordReset(email string) error
	ResetPassword(token string, newPassword string) error
}

type service struct {
	repo          Repository
	mailer        *utils.Mailer
	frontendURL   string
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config, mailer *utils.Mailer) Service {
	return &service{
		repo:          r,
		mailer:        mailer,
		frontendURL:   cfg.FrontendURL,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	FullName     string
	Email        string
	Password     string
	Role         string
	EmailConsent bool
}

func (s *service) Register(in RegisterInput) (*Member, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = RoleMember
	}
	if !PublicRole(role) {
		return nil, errors.New("invalid role")
	}

	if in.FullName == "" || in.Email == "" {
		return nil, errors.New("full name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &Member{
		FullName:     in.FullName,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		IsRegistered: true,
		EmailConsent: in.EmailConsent,
	}

	if err := s.repo.Create(member); err != nil {
		return nil, err
	}

	return member, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *Member, error) {
	member, err := s.repo.FindByEmail(strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("couldn't find your account")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	accessToken, err := s.generateAccessToken(member)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.generateRefreshToken(member)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, member, nil
}

func (s *service) generateAccessToken(member *Member) (string, error) {
	claims := jwt.MapClaims{
		"user_id": member.ID,
		"role":    member.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(member *Member) (string, error) {
	claims := jwt.MapClaims{
		"user_id": member.ID,
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// =============================
// Refresh
// =============================

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	member, err := s.repo.FindByID(userID)
	if err != nil {
		return "", errors.New("member not found")
	}

	return s.generateAccessToken(&member)
}

// =============================
// Password reset
// =============================

func (s *service) RequestPasswordReset(email string) error {
	member, err := s.repo.FindByEmail(strings.ToLower(email))
	if err != nil {
		return errors.New("member not found")
	}

	resetToken := generateSecureToken()
	key := fmt.Sprintf("reset_token:%s", resetToken)

	if err := utils.SetToken(key, member.ID, 15*time.Minute); err != nil {
		return errors.New("could not save reset token")
	}

	if err := s.mailer.SendResetLink(member.Email, resetToken, s.frontendURL); err != nil {
		return errors.New("failed to send email")
	}

	return nil
}

func (s *service) ResetPassword(token string, newPassword string) error {
	key := fmt.Sprintf("reset_token:%s", token)
	userID, err := utils.GetToken(key)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	member, err := s.repo.FindByID(userID)
	if err != nil {
		return errors.New("member not found")
	}

	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	member.PasswordHash = string(hash)
	if err := s.repo.Update(&member); err != nil {
		return errors.New("failed to update password")
	}

	_ = utils.DeleteToken(key)

	return nil
}

// =============================
// Lookup
// =============================

func (s *service) GetMemberByID(id string) (Member, error) {
	return s.repo.FindByID(id)
}

func generateSecureToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
