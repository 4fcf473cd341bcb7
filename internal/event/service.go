package event

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

var (
	ErrEventNotFound = errors.New("Event not found")
	ErrForbidden     = errors.New("You do not have permission to access this event")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// SlotStore manages the volunteer slots hanging off an event. Implemented
// by the volunteer package and wired in at route setup.
type SlotStore interface {
	CreateSlots(ctx context.Context, eventID string, slots []SlotInput) error
	DeleteByEvent(ctx context.Context, eventID string) error
}

// RSVPStore clears the RSVPs hanging off an event. Implemented by the rsvp
// package and wired in at route setup.
type RSVPStore interface {
	DeleteByEvent(ctx context.Context, eventID string) error
}

type ListQuery struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Limit     int
	Offset    int
}

type Service struct {
	repo Repository

	// Slots is optional; when nil, volunteer_slots on create are rejected.
	Slots SlotStore

	// RSVPs is optional; when nil, event deletion skips the RSVP sweep.
	RSVPs RSVPStore
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// visibilitiesFor maps the caller's role to the visibility tiers they may list.
func visibilitiesFor(caller *auth.Member) []string {
	if caller == nil {
		return []string{VisibilityPublic}
	}
	if caller.IsBoardOrAdmin() {
		return nil // unrestricted
	}
	return []string{VisibilityPublic, VisibilityMembers}
}

func (s *Service) ListEvents(ctx context.Context, caller *auth.Member, query ListQuery) ([]EventWithMeta, int64, error) {
	if query.Limit <= 0 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	filter := ListFilter{
		Visibilities: visibilitiesFor(caller),
		Type:         query.Type,
		StartDate:    query.StartDate,
		EndDate:      query.EndDate,
		Search:       query.Search,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}

	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	annotated := make([]EventWithMeta, 0, len(events))
	for _, ev := range events {
		meta, err := s.annotate(ctx, ev, caller)
		if err != nil {
			return nil, 0, err
		}
		annotated = append(annotated, meta)
	}

	return annotated, total, nil
}

func (s *Service) annotate(ctx context.Context, ev Event, caller *auth.Member) (EventWithMeta, error) {
	meta := EventWithMeta{Event: ev}

	if ev.Capacity != nil {
		attending, err := s.repo.AttendingTotal(ctx, ev.ID)
		if err != nil {
			return EventWithMeta{}, err
		}
		spots := *ev.Capacity - attending
		meta.AvailableSpots = &spots
	}

	if caller != nil {
		rsvp, err := s.repo.UserRSVP(ctx, ev.ID, caller.ID)
		if err != nil {
			return EventWithMeta{}, err
		}
		meta.UserRSVP = rsvp
	}

	return meta, nil
}

func (s *Service) GetEvent(ctx context.Context, caller *auth.Member, id string) (EventWithMeta, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EventWithMeta{}, ErrEventNotFound
	}
	if err != nil {
		return EventWithMeta{}, err
	}

	role := ""
	authenticated := caller != nil
	if caller != nil {
		role = caller.Role
	}
	if !CanViewEvent(ev.Visibility, role, authenticated) {
		return EventWithMeta{}, ErrForbidden
	}

	return s.annotate(ctx, ev, caller)
}

func (s *Service) CreateEvent(ctx context.Context, creator auth.Member, form EventForm, slots []SlotInput) (Event, error) {
	if !creator.IsBoardOrAdmin() {
		return Event{}, ErrForbidden
	}

	fieldErrs := ValidateForm(form)
	if len(slots) > 0 {
		if s.Slots == nil {
			fieldErrs["volunteer_slots"] = "volunteer slots are not supported"
		}
		for k, v := range ValidateSlots(slots) {
			fieldErrs[k] = v
		}
	}
	if len(fieldErrs) > 0 {
		return Event{}, &ValidationError{Fields: fieldErrs}
	}

	ev := Event{
		Title:        form.Title,
		Description:  form.Description,
		Type:         form.Type,
		StartTime:    form.StartTime,
		EndTime:      form.EndTime,
		LocationType: form.LocationType,
		Address:      form.Address,
		VirtualLink:  form.VirtualLink,
		Capacity:     form.Capacity,
		RequiresRSVP: form.RequiresRSVP,
		AllowGuests:  form.AllowGuests,
		Visibility:   form.Visibility,
		CreatedBy:    creator.ID,
	}

	if err := s.repo.Create(ctx, &ev); err != nil {
		return Event{}, err
	}

	if len(slots) > 0 {
		if err := s.Slots.CreateSlots(ctx, ev.ID, slots); err != nil {
			return Event{}, err
		}
	}

	return ev, nil
}

func (s *Service) UpdateEvent(ctx context.Context, caller auth.Member, id string, form EventForm) (Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		return Event{}, err
	}

	if !CanEditEvent(ev.CreatedBy, caller.ID, caller.Role) {
		return Event{}, ErrForbidden
	}

	if fieldErrs := ValidateForm(form); len(fieldErrs) > 0 {
		return Event{}, &ValidationError{Fields: fieldErrs}
	}

	ev.Title = form.Title
	ev.Description = form.Description
	ev.Type = form.Type
	ev.StartTime = form.StartTime
	ev.EndTime = form.EndTime
	ev.LocationType = form.LocationType
	ev.Address = form.Address
	ev.VirtualLink = form.VirtualLink
	ev.Capacity = form.Capacity
	ev.RequiresRSVP = form.RequiresRSVP
	ev.AllowGuests = form.AllowGuests
	ev.Visibility = form.Visibility

	if err := s.repo.Update(ctx, &ev); err != nil {
		return Event{}, err
	}

	return ev, nil
}

// DeleteEvent removes the event together with its volunteer slots, their
// signups, and its RSVPs. Children go first so a failure never leaves rows
// pointing at a missing event.
func (s *Service) DeleteEvent(ctx context.Context, caller auth.Member, id string) error {
	ev, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}

	if !CanEditEvent(ev.CreatedBy, caller.ID, caller.Role) {
		return ErrForbidden
	}

	if s.Slots != nil {
		if err := s.Slots.DeleteByEvent(ctx, id); err != nil {
			return err
		}
	}
	if s.RSVPs != nil {
		if err := s.RSVPs.DeleteByEvent(ctx, id); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}
