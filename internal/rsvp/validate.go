package rsvp

// Input is the RSVP request body. Any event_id/user_id fields a client sends
// are ignored; the path parameter and session identity are authoritative.
type Input struct {
	Status     string `json:"status"`
	GuestCount int    `json:"guest_count"`
	Notes      string `json:"notes"`
}

var validStatuses = map[string]bool{
	StatusAttending:    true,
	StatusNotAttending: true,
	StatusMaybe:        true,
}

// ValidateInput checks the request body shape and returns per-field errors.
// Business rules against event state (guests allowed, capacity) are checked
// later by the service.
func ValidateInput(in Input) map[string]string {
	errs := make(map[string]string)

	if in.Status == "" {
		errs["status"] = "status is required"
	} else if !validStatuses[in.Status] {
		errs["status"] = "status must be attending, not_attending, or maybe"
	}

	if in.GuestCount < 0 || in.GuestCount > 10 {
		errs["guest_count"] = "guest_count must be between 0 and 10"
	}

	if len(in.Notes) > 500 {
		errs["notes"] = "notes must be at most 500 characters"
	}

	return errs
}
