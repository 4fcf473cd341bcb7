package event

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	Visibilities []string
	Type         string
	StartDate    *time.Time
	EndDate      *time.Time
	Search       string
	Limit        int
	Offset       int
}

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Event, int64, error)

	// AttendingTotal sums reserved spots (attendee plus guests) over all
	// attending RSVPs for the event.
	AttendingTotal(ctx context.Context, eventID string) (int, error)

	// UserRSVP fetches the caller's own RSVP row for the event, nil if none.
	UserRSVP(ctx context.Context, eventID, userID string) (*RSVPInfo, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	return event, err
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.WithContext(ctx).Model(&Event{})

	if len(filter.Visibilities) > 0 {
		query = query.Where("visibility IN ?", filter.Visibilities)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("start_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("start_time <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("start_time ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *repository) AttendingTotal(ctx context.Context, eventID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Table("rsvps").
		Select("SUM(1 + guest_count)").
		Where("event_id = ? AND status = ?", eventID, "attending").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) UserRSVP(ctx context.Context, eventID, userID string) (*RSVPInfo, error) {
	var info RSVPInfo
	err := r.db.WithContext(ctx).
		Table("rsvps").
		Select("id, status, guest_count, notes").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Take(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}
