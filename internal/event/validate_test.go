package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

func intPtr(v int) *int { return &v }

func TestValidateCapacity(t *testing.T) {
	assert.True(t, ValidateCapacity(1000, 1000, nil),
		"nil capacity means unlimited")
	assert.True(t, ValidateCapacity(0, 0, intPtr(0)),
		"zero capacity admits a zero-spot request")
	assert.False(t, ValidateCapacity(0, 1, intPtr(0)),
		"zero capacity admits nobody")
	assert.True(t, ValidateCapacity(15, 5, intPtr(20)),
		"exactly filling capacity is allowed")
	assert.False(t, ValidateCapacity(15, 6, intPtr(20)),
		"one over capacity is rejected")
}

func TestValidateGuestCount(t *testing.T) {
	assert.True(t, ValidateGuestCount(0, false))
	assert.False(t, ValidateGuestCount(1, false),
		"guests rejected when the event disallows them")
	assert.True(t, ValidateGuestCount(10, true))
	assert.False(t, ValidateGuestCount(11, true), "guest count capped at 10")
	assert.False(t, ValidateGuestCount(-1, true))
}

func TestCanViewEvent(t *testing.T) {
	assert.True(t, CanViewEvent(VisibilityPublic, "", false))
	assert.False(t, CanViewEvent(VisibilityMembers, "", false))
	assert.True(t, CanViewEvent(VisibilityMembers, auth.RoleMember, true))

	assert.True(t, CanViewEvent(VisibilityBoard, auth.RoleAdmin, true))
	assert.True(t, CanViewEvent(VisibilityBoard, auth.RoleBoard, true))
	assert.False(t, CanViewEvent(VisibilityBoard, auth.RoleMember, true))
	assert.False(t, CanViewEvent(VisibilityBoard, auth.RoleTeacher, true))
	assert.False(t, CanViewEvent(VisibilityBoard, "", false))
}

func TestCanEditEvent(t *testing.T) {
	assert.True(t, CanEditEvent("creator", "creator", auth.RoleMember),
		"creators edit their own events")
	assert.False(t, CanEditEvent("creator", "someone-else", auth.RoleMember))
	assert.True(t, CanEditEvent("creator", "someone-else", auth.RoleAdmin))
	assert.True(t, CanEditEvent("creator", "someone-else", auth.RoleBoard))
	assert.False(t, CanEditEvent("", "", auth.RoleMember),
		"missing creator never matches")
}

func TestValidateEventTimes(t *testing.T) {
	now := time.Now()

	assert.True(t, ValidateEventTimes(now.Add(time.Hour), now.Add(2*time.Hour)))
	assert.True(t, ValidateEventTimes(now.Add(-30*time.Second), now.Add(time.Hour)),
		"starts within the grace period are accepted")
	assert.False(t, ValidateEventTimes(now.Add(-2*time.Minute), now.Add(time.Hour)),
		"starts beyond the grace period are rejected")
	assert.False(t, ValidateEventTimes(now.Add(2*time.Hour), now.Add(time.Hour)),
		"end must be after start")
	assert.False(t, ValidateEventTimes(now.Add(time.Hour), now.Add(time.Hour)),
		"zero-length events are rejected")
}

func validForm() EventForm {
	return EventForm{
		Title:        "Fall Fundraiser",
		Description:  "Annual fundraiser",
		Type:         TypeFundraiser,
		StartTime:    time.Now().Add(24 * time.Hour),
		EndTime:      time.Now().Add(26 * time.Hour),
		LocationType: LocationInPerson,
		Address:      "123 School Rd",
		Visibility:   VisibilityPublic,
	}
}

func TestValidateForm(t *testing.T) {
	assert.Empty(t, ValidateForm(validForm()))

	form := validForm()
	form.Title = ""
	assert.Contains(t, ValidateForm(form), "title")

	form = validForm()
	form.Type = "party"
	assert.Contains(t, ValidateForm(form), "type")

	form = validForm()
	form.Visibility = "secret"
	assert.Contains(t, ValidateForm(form), "visibility")

	form = validForm()
	form.Capacity = intPtr(0)
	assert.Contains(t, ValidateForm(form), "capacity")

	form = validForm()
	form.Capacity = intPtr(50)
	assert.Empty(t, ValidateForm(form))
}

func TestValidateForm_LocationConditionals(t *testing.T) {
	form := validForm()
	form.LocationType = LocationInPerson
	form.Address = ""
	assert.Contains(t, ValidateForm(form), "address",
		"in-person events need an address")

	form = validForm()
	form.LocationType = LocationVirtual
	form.Address = ""
	form.VirtualLink = ""
	assert.Contains(t, ValidateForm(form), "virtual_link",
		"virtual events need a link")

	form = validForm()
	form.LocationType = LocationVirtual
	form.VirtualLink = "https://meet.example.com/ptsa"
	assert.Empty(t, ValidateForm(form))

	form = validForm()
	form.LocationType = LocationHybrid
	form.Address = "123 School Rd"
	form.VirtualLink = ""
	errs := ValidateForm(form)
	assert.Contains(t, errs, "virtual_link", "hybrid events need both")

	form.VirtualLink = "https://meet.example.com/ptsa"
	assert.Empty(t, ValidateForm(form))
}

func TestValidateSlots(t *testing.T) {
	assert.Empty(t, ValidateSlots(nil))
	assert.Empty(t, ValidateSlots([]SlotInput{{Title: "Setup crew", Quantity: 4}}))
	assert.Contains(t, ValidateSlots([]SlotInput{{Title: "", Quantity: 4}}), "volunteer_slots")
	assert.Contains(t, ValidateSlots([]SlotInput{{Title: "Setup crew", Quantity: 0}}), "volunteer_slots")
}
