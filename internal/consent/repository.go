package consent

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, record *ConsentRecord) error
	ListByUser(ctx context.Context, userID string) ([]ConsentRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *ConsentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]ConsentRecord, error) {
	var records []ConsentRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
