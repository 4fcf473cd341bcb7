package volunteer

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CreateSlot(ctx context.Context, slot *Slot) error
	GetSlotByID(ctx context.Context, id string) (Slot, error)
	ListSlotsByEvent(ctx context.Context, eventID string) ([]Slot, error)
	DeleteByEvent(ctx context.Context, eventID string) error

	GetSignup(ctx context.Context, slotID, userID string) (*Signup, error)
	CreateSignup(ctx context.Context, row *Signup) error
	UpdateSignup(ctx context.Context, row *Signup) error
	DeleteSignup(ctx context.Context, slotID, userID string) error

	// SumQuantityExcluding totals signup quantity for a slot except the
	// given user's own row, mirroring the RSVP capacity baseline.
	SumQuantityExcluding(ctx context.Context, slotID, excludeUserID string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSlot(ctx context.Context, slot *Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *repository) GetSlotByID(ctx context.Context, id string) (Slot, error) {
	var slot Slot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error
	return slot, err
}

func (r *repository) ListSlotsByEvent(ctx context.Context, eventID string) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM volunteer_signups WHERE slot_id IN (SELECT id FROM volunteer_slots WHERE event_id = ?)",
			eventID,
		).Error
		if err != nil {
			return err
		}
		return tx.Where("event_id = ?", eventID).Delete(&Slot{}).Error
	})
}

func (r *repository) GetSignup(ctx context.Context, slotID, userID string) (*Signup, error) {
	var row Signup
	err := r.db.WithContext(ctx).
		Where("slot_id = ? AND user_id = ?", slotID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreateSignup(ctx context.Context, row *Signup) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateSignup(ctx context.Context, row *Signup) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) DeleteSignup(ctx context.Context, slotID, userID string) error {
	return r.db.WithContext(ctx).
		Where("slot_id = ? AND user_id = ?", slotID, userID).
		Delete(&Signup{}).Error
}

func (r *repository) SumQuantityExcluding(ctx context.Context, slotID, excludeUserID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&Signup{}).
		Select("SUM(quantity)").
		Where("slot_id = ? AND user_id <> ?", slotID, excludeUserID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
