package event

import (
	"strings"
	"time"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

// startGracePeriod tolerates small clock skew between clients and the server
// when checking that a new event does not start in the past.
const startGracePeriod = 60 * time.Second

var validTypes = map[string]bool{
	TypeMeeting:     true,
	TypeFundraiser:  true,
	TypeVolunteer:   true,
	TypeSocial:      true,
	TypeEducational: true,
}

var validVisibilities = map[string]bool{
	VisibilityPublic:  true,
	VisibilityMembers: true,
	VisibilityBoard:   true,
}

var validLocationTypes = map[string]bool{
	LocationInPerson: true,
	LocationVirtual:  true,
	LocationHybrid:   true,
}

// ValidateCapacity reports whether adding more reserved spots fits within
// capacity. A nil capacity means unlimited. Capacity zero admits nobody.
func ValidateCapacity(currentCount, addingCount int, capacity *int) bool {
	if capacity == nil {
		return true
	}
	return currentCount+addingCount <= *capacity
}

// ValidateGuestCount checks guest count bounds and the allow-guests flag.
func ValidateGuestCount(count int, allowGuests bool) bool {
	if count < 0 || count > 10 {
		return false
	}
	if !allowGuests && count != 0 {
		return false
	}
	return true
}

// CanViewEvent decides whether a caller with the given role may see an event
// of the given visibility tier.
func CanViewEvent(visibility, role string, isAuthenticated bool) bool {
	switch visibility {
	case VisibilityPublic:
		return true
	case VisibilityMembers:
		return isAuthenticated
	case VisibilityBoard:
		return role == auth.RoleAdmin || role == auth.RoleBoard
	default:
		return false
	}
}

// CanEditEvent allows board/admin globally and the creator otherwise.
func CanEditEvent(creatorID, userID, role string) bool {
	if role == auth.RoleAdmin || role == auth.RoleBoard {
		return true
	}
	return creatorID != "" && creatorID == userID
}

// ValidateEventTimes requires a start no earlier than one minute ago and an
// end strictly after the start.
func ValidateEventTimes(start, end time.Time) bool {
	if start.Before(time.Now().Add(-startGracePeriod)) {
		return false
	}
	return end.After(start)
}

// ValidateForm checks an event form and returns per-field errors.
// An empty map means the form is valid.
func ValidateForm(form EventForm) map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(form.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if len(title) > 200 {
		errs["title"] = "title must be at most 200 characters"
	}

	if len(form.Description) > 2000 {
		errs["description"] = "description must be at most 2000 characters"
	}

	if !validTypes[form.Type] {
		errs["type"] = "invalid event type"
	}

	if !validVisibilities[form.Visibility] {
		errs["visibility"] = "invalid visibility"
	}

	if form.StartTime.IsZero() || form.EndTime.IsZero() {
		errs["start_time"] = "start and end times are required"
	} else if !ValidateEventTimes(form.StartTime, form.EndTime) {
		errs["start_time"] = "start must not be in the past and end must be after start"
	}

	switch form.LocationType {
	case LocationInPerson:
		if strings.TrimSpace(form.Address) == "" {
			errs["address"] = "address is required for in-person events"
		}
	case LocationVirtual:
		if strings.TrimSpace(form.VirtualLink) == "" {
			errs["virtual_link"] = "virtual link is required for virtual events"
		}
	case LocationHybrid:
		if strings.TrimSpace(form.Address) == "" {
			errs["address"] = "address is required for hybrid events"
		}
		if strings.TrimSpace(form.VirtualLink) == "" {
			errs["virtual_link"] = "virtual link is required for hybrid events"
		}
	default:
		errs["location_type"] = "invalid location type"
	}

	if form.Capacity != nil && *form.Capacity <= 0 {
		errs["capacity"] = "capacity must be a positive number"
	}

	return errs
}

// ValidateSlots checks the optional volunteer slot batch on event creation.
func ValidateSlots(slots []SlotInput) map[string]string {
	errs := make(map[string]string)
	for _, slot := range slots {
		if strings.TrimSpace(slot.Title) == "" {
			errs["volunteer_slots"] = "slot title is required"
			break
		}
		if slot.Quantity <= 0 {
			errs["volunteer_slots"] = "slot quantity must be a positive number"
			break
		}
	}
	return errs
}
