package announcement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Announcement is a message from the board to the membership. AudienceRoles
// narrows delivery to specific roles; empty means every consenting member.
type Announcement struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"type:varchar(200);not null" json:"title"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	AudienceRoles datatypes.JSON `gorm:"type:jsonb" json:"audience_roles,omitempty"`
	SendEmail     bool           `gorm:"default:false" json:"send_email"`
	CreatedBy     string         `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// DeliveryJob is the message queued for the email delivery worker.
type DeliveryJob struct {
	AnnouncementID string   `json:"announcement_id"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	AudienceRoles  []string `json:"audience_roles,omitempty"`
}
