package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names used across handlers and middleware.
const (
	RoleMember         = "member"
	RoleBoard          = "board"
	RoleAdmin          = "admin"
	RoleCommitteeChair = "committee_chair"
	RoleTeacher        = "teacher"
)

// Member is the authenticated identity for every request. RSVPs and
// volunteer signups always reference the session member, never a
// client-supplied user id.
type Member struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"type:varchar(120);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(30);not null;default:'member'" json:"role"`
	IsRegistered bool      `gorm:"default:true" json:"is_registered"`
	EmailConsent bool      `gorm:"default:false" json:"email_consent"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsBoardOrAdmin reports whether the member holds an event-management role.
func (m *Member) IsBoardOrAdmin() bool {
	return m.Role == RoleAdmin || m.Role == RoleBoard
}

// ValidRole reports whether name is one of the known roles.
func ValidRole(name string) bool {
	switch name {
	case RoleMember, RoleBoard, RoleAdmin, RoleCommitteeChair, RoleTeacher:
		return true
	}
	return false
}

// PublicRole reports whether a role may be chosen at self-registration.
// Board, admin and committee chair accounts are promoted by an admin.
func PublicRole(name string) bool {
	return name == RoleMember || name == RoleTeacher
}
