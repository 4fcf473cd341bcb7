package rsvp

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusAttending    = "attending"
	StatusNotAttending = "not_attending"
	StatusMaybe        = "maybe"
)

// RSVP is one member's attendance response to one event. The
// (event_id, user_id) pair is unique; repeat submissions update in place.
type RSVP struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_rsvps_event_user" json:"event_id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_rsvps_event_user" json:"user_id"`
	Status     string    `gorm:"type:varchar(20);not null" json:"status"`
	GuestCount int       `gorm:"not null;default:0" json:"guest_count"`
	Notes      string    `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
