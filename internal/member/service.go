package member

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidName    = errors.New("full name is required")
	ErrInvalidRole    = errors.New("invalid role")
)

type ProfileUpdateInput struct {
	FullName     *string `json:"full_name"`
	EmailConsent *bool   `json:"email_consent"`
}

type PaginatedDirectory struct {
	Data       []auth.Member `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

type Service interface {
	GetProfile(ctx context.Context, memberID string) (auth.Member, error)
	UpdateProfile(ctx context.Context, memberID string, input ProfileUpdateInput) (auth.Member, error)
	Directory(ctx context.Context, filter DirectoryFilter) (*PaginatedDirectory, error)
	UpdateRole(ctx context.Context, memberID string, role string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, memberID string) (auth.Member, error) {
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return auth.Member{}, ErrMemberNotFound
	}
	return member, nil
}

func (s *service) UpdateProfile(ctx context.Context, memberID string, input ProfileUpdateInput) (auth.Member, error) {
	member, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		return auth.Member{}, ErrMemberNotFound
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return auth.Member{}, ErrInvalidName
		}
		member.FullName = name
	}
	if input.EmailConsent != nil {
		member.EmailConsent = *input.EmailConsent
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		return auth.Member{}, err
	}
	return member, nil
}

func (s *service) UpdateRole(ctx context.Context, memberID string, role string) error {
	if !auth.ValidRole(role) {
		return ErrInvalidRole
	}
	if _, err := s.repo.FindByID(ctx, memberID); err != nil {
		return ErrMemberNotFound
	}
	return s.repo.UpdateRole(ctx, memberID, role)
}

func (s *service) Directory(ctx context.Context, filter DirectoryFilter) (*PaginatedDirectory, error) {
	if filter.Role != "" && !auth.ValidRole(filter.Role) {
		return nil, ErrInvalidRole
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaginatedDirectory{
		Data:       members,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
