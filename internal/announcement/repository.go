package announcement

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, row *Announcement) error
	GetByID(ctx context.Context, id string) (Announcement, error)
	List(ctx context.Context, limit, offset int) ([]Announcement, int64, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, row *Announcement) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (Announcement, error) {
	var row Announcement
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Announcement, int64, error) {
	var rows []Announcement
	var total int64

	query := r.db.WithContext(ctx).Model(&Announcement{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Announcement{}, "id = ?", id).Error
}
