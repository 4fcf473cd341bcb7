package rsvp

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	Create(ctx context.Context, row *RSVP) error
	Update(ctx context.Context, row *RSVP) error
	DeleteByEventAndUser(ctx context.Context, eventID, userID string) error
	DeleteByEvent(ctx context.Context, eventID string) error

	// SumAttendingExcluding totals reserved spots (1 + guest_count) over all
	// attending RSVPs for the event except the given user's own row. The
	// exclusion lets a member resubmit without double counting themselves.
	SumAttendingExcluding(ctx context.Context, eventID, excludeUserID string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error) {
	var row RSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Create(ctx context.Context, row *RSVP) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *RSVP) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) DeleteByEventAndUser(ctx context.Context, eventID, userID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&RSVP{}).Error
}

func (r *repository) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&RSVP{}).Error
}

func (r *repository) SumAttendingExcluding(ctx context.Context, eventID, excludeUserID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&RSVP{}).
		Select("SUM(1 + guest_count)").
		Where("event_id = ? AND status = ? AND user_id <> ?", eventID, StatusAttending, excludeUserID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
