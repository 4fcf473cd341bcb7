package member

import (
	"context"

	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

type DirectoryFilter struct {
	Search string
	Role   string
	Page   int
	Limit  int
}

type Repository interface {
	FindByID(ctx context.Context, id string) (auth.Member, error)
	Update(ctx context.Context, member *auth.Member) error
	UpdateRole(ctx context.Context, id string, role string) error
	List(ctx context.Context, filter DirectoryFilter) ([]auth.Member, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (auth.Member, error) {
	var member auth.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	return member, err
}

func (r *repository) Update(ctx context.Context, member *auth.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) UpdateRole(ctx context.Context, id string, role string) error {
	return r.db.WithContext(ctx).Model(&auth.Member{}).Where("id = ?", id).Update("role", role).Error
}

// List returns registered members matching the filter, newest first.
func (r *repository) List(ctx context.Context, filter DirectoryFilter) ([]auth.Member, int64, error) {
	var members []auth.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&auth.Member{}).Where("is_registered = ?", true)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}
