package volunteer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slot is a task attached to one event, needing a fixed quantity of
// volunteer units.
type Slot struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     string    `gorm:"type:uuid;not null;index" json:"event_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slot) TableName() string {
	return "volunteer_slots"
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Signup is one member's commitment to a slot. The (slot_id, user_id) pair
// is unique; repeat submissions update in place.
type Signup struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SlotID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_signups_slot_user" json:"slot_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_signups_slot_user" json:"user_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Notes     string    `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Signup) TableName() string {
	return "volunteer_signups"
}

func (s *Signup) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
