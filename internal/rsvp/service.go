package rsvp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/internal/event"
)

var (
	ErrNotAMember       = errors.New("You must be a registered PTSA member to RSVP")
	ErrEventNotFound    = errors.New("Event not found")
	ErrForbidden        = errors.New("You do not have permission to RSVP to this event")
	ErrRSVPNotRequired  = errors.New("This event does not require RSVPs")
	ErrEventStarted     = errors.New("This event has already started")
	ErrGuestsNotAllowed = errors.New("This event does not allow guests")
	ErrEventFull        = errors.New("Event is full")
)

// ValidationError carries per-field messages for a rejected body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// EventStore is the slice of the event repository the RSVP path needs.
type EventStore interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type Service struct {
	repo   Repository
	events EventStore
	now    func() time.Time
}

func NewService(repo Repository, events EventStore) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// Upsert records or updates the member's RSVP for an event. Capacity is
// recomputed from current rows on every call; the caller's own prior
// reservation is excluded from the baseline so resubmitting the same values
// never fails and shrinking a guest count frees the difference.
func (s *Service) Upsert(ctx context.Context, member auth.Member, eventID string, in Input) (*RSVP, error) {
	if !member.IsRegistered {
		return nil, ErrNotAMember
	}

	if fieldErrs := ValidateInput(in); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if !event.CanViewEvent(ev.Visibility, member.Role, true) {
		return nil, ErrForbidden
	}
	if !ev.RequiresRSVP {
		return nil, ErrRSVPNotRequired
	}
	if !s.now().Before(ev.StartTime) {
		return nil, ErrEventStarted
	}

	if in.Status == StatusAttending {
		if !event.ValidateGuestCount(in.GuestCount, ev.AllowGuests) {
			return nil, ErrGuestsNotAllowed
		}
	}

	existing, err := s.repo.GetByEventAndUser(ctx, eventID, member.ID)
	if err != nil {
		return nil, err
	}

	if in.Status == StatusAttending {
		othersTotal, err := s.repo.SumAttendingExcluding(ctx, eventID, member.ID)
		if err != nil {
			return nil, err
		}
		requested := 1 + in.GuestCount
		if !event.ValidateCapacity(othersTotal, requested, ev.Capacity) {
			return nil, ErrEventFull
		}
	}

	if existing == nil {
		row := &RSVP{
			EventID:    eventID,
			UserID:     member.ID,
			Status:     in.Status,
			GuestCount: in.GuestCount,
			Notes:      in.Notes,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return nil, err
		}
		return row, nil
	}

	existing.Status = in.Status
	existing.GuestCount = in.GuestCount
	existing.Notes = in.Notes
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove deletes the member's RSVP for an event. Absence of a matching row
// is a success, not an error.
func (s *Service) Remove(ctx context.Context, memberID, eventID string) error {
	return s.repo.DeleteByEventAndUser(ctx, eventID, memberID)
}

// DeleteByEvent clears every RSVP for an event. Called when the event itself
// is deleted.
func (s *Service) DeleteByEvent(ctx context.Context, eventID string) error {
	return s.repo.DeleteByEvent(ctx, eventID)
}
