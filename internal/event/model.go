package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeMeeting     = "meeting"
	TypeFundraiser  = "fundraiser"
	TypeVolunteer   = "volunteer"
	TypeSocial      = "social"
	TypeEducational = "educational"
)

const (
	LocationInPerson = "in_person"
	LocationVirtual  = "virtual"
	LocationHybrid   = "hybrid"
)

const (
	VisibilityPublic  = "public"
	VisibilityMembers = "members"
	VisibilityBoard   = "board"
)

// Event is a scheduled PTSA gathering. Capacity is nil for unlimited events.
type Event struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Type         string    `gorm:"type:varchar(30);not null" json:"type"`
	StartTime    time.Time `gorm:"not null;index" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	LocationType string    `gorm:"type:varchar(20);not null" json:"location_type"`
	Address      string    `gorm:"type:varchar(300)" json:"address,omitempty"`
	VirtualLink  string    `gorm:"type:varchar(500)" json:"virtual_link,omitempty"`
	Capacity     *int      `json:"capacity,omitempty"`
	RequiresRSVP bool      `gorm:"default:false" json:"requires_rsvp"`
	AllowGuests  bool      `gorm:"default:false" json:"allow_guests"`
	Visibility   string    `gorm:"type:varchar(20);not null;default:'public';index" json:"visibility"`
	CreatedBy    string    `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// RSVPInfo is the caller's own RSVP attached to a listed event.
// Scanned from the rsvps table directly so the read side does not
// depend on the rsvp package.
type RSVPInfo struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	GuestCount int    `json:"guest_count"`
	Notes      string `json:"notes,omitempty"`
}

// EventWithMeta is the listing payload: the event annotated with remaining
// capacity and, for authenticated callers, their own RSVP.
type EventWithMeta struct {
	Event
	AvailableSpots *int      `json:"available_spots,omitempty"`
	UserRSVP       *RSVPInfo `json:"user_rsvp,omitempty"`
}

// SlotInput is a volunteer slot created alongside an event.
type SlotInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// EventForm is the create/update request payload.
type EventForm struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	LocationType string    `json:"location_type"`
	Address      string    `json:"address"`
	VirtualLink  string    `json:"virtual_link"`
	Capacity     *int      `json:"capacity"`
	RequiresRSVP bool      `json:"requires_rsvp"`
	AllowGuests  bool      `json:"allow_guests"`
	Visibility   string    `json:"visibility"`
}
