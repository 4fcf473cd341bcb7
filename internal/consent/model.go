package consent

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeEmailUpdates = "email_updates"
	TypeDirectory    = "directory_listing"
)

// ConsentRecord is an append-only trail of consent grants and revocations.
// The member's current standing is the latest record per type.
type ConsentRecord struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ConsentType string    `gorm:"type:varchar(40);not null;index" json:"consent_type"`
	Granted     bool      `gorm:"not null" json:"granted"`
	IPAddress   string    `gorm:"size:45" json:"ip_address"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ConsentRecord) TableName() string {
	return "consent_records"
}

func (r *ConsentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
