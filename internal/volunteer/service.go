package volunteer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/internal/event"
)

// maxSignupQuantity caps how many volunteer units a single member may claim
// on one slot.
const maxSignupQuantity = 5

var (
	ErrNotAMember    = errors.New("You must be a registered PTSA member to volunteer")
	ErrEventNotFound = errors.New("Event not found")
	ErrForbidden     = errors.New("You do not have permission to volunteer for this event")

	// ErrSlotNotFound covers both a missing slot and a slot that belongs to
	// a different event. Collapsing the two keeps slot identifiers from
	// leaking across events.
	ErrSlotNotFound = errors.New("Volunteer slot not found")
)

// SlotFullError reports exactly how many spots remain on the slot.
type SlotFullError struct {
	Remaining int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("Only %d spots available", e.Remaining)
}

// ValidationError carries per-field messages for a rejected body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Input is the signup request body.
type Input struct {
	SlotID   string `json:"slot_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// ValidateInput checks body shape: a UUID-shaped slot_id, a positive bounded
// quantity, and a bounded note.
func ValidateInput(in Input) map[string]string {
	errs := make(map[string]string)

	if in.SlotID == "" {
		errs["slot_id"] = "slot_id is required"
	} else if _, err := uuid.Parse(in.SlotID); err != nil {
		errs["slot_id"] = "slot_id must be a valid identifier"
	}

	if in.Quantity <= 0 {
		errs["quantity"] = "quantity must be a positive number"
	} else if in.Quantity > maxSignupQuantity {
		errs["quantity"] = fmt.Sprintf("quantity must be at most %d", maxSignupQuantity)
	}

	if len(in.Notes) > 500 {
		errs["notes"] = "notes must be at most 500 characters"
	}

	return errs
}

// EventStore is the slice of the event repository the signup path needs.
type EventStore interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type Service struct {
	repo   Repository
	events EventStore
}

func NewService(repo Repository, events EventStore) *Service {
	return &Service{repo: repo, events: events}
}

// CreateSlots persists a batch of slots for a newly created event. Satisfies
// the event package's SlotStore.
func (s *Service) CreateSlots(ctx context.Context, eventID string, slots []event.SlotInput) error {
	for _, in := range slots {
		slot := &Slot{
			EventID:     eventID,
			Title:       in.Title,
			Description: in.Description,
			Quantity:    in.Quantity,
		}
		if err := s.repo.CreateSlot(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

// ListSlots returns an event's slots with remaining capacity attached.
func (s *Service) ListSlots(ctx context.Context, caller *auth.Member, eventID string) ([]SlotWithMeta, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	role := ""
	authenticated := caller != nil
	if caller != nil {
		role = caller.Role
	}
	if !event.CanViewEvent(ev.Visibility, role, authenticated) {
		return nil, ErrForbidden
	}

	slots, err := s.repo.ListSlotsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]SlotWithMeta, 0, len(slots))
	for _, slot := range slots {
		taken, err := s.repo.SumQuantityExcluding(ctx, slot.ID, "")
		if err != nil {
			return nil, err
		}
		meta := SlotWithMeta{Slot: slot, Remaining: slot.Quantity - taken}
		if caller != nil {
			signup, err := s.repo.GetSignup(ctx, slot.ID, caller.ID)
			if err != nil {
				return nil, err
			}
			meta.UserSignup = signup
		}
		out = append(out, meta)
	}
	return out, nil
}

// SlotWithMeta is a slot annotated with remaining capacity and, for
// authenticated callers, their own signup.
type SlotWithMeta struct {
	Slot
	Remaining  int     `json:"remaining"`
	UserSignup *Signup `json:"user_signup,omitempty"`
}

// Upsert records or updates the member's signup for a slot. The slot must
// belong to the event named in the URL. Capacity baseline excludes the
// caller's own prior signup, matching the RSVP path.
func (s *Service) Upsert(ctx context.Context, member auth.Member, eventID string, in Input) (*Signup, error) {
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

	slot, err := s.repo.GetSlotByID(ctx, in.SlotID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && slot.EventID != eventID) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetSignup(ctx, slot.ID, member.ID)
	if err != nil {
		return nil, err
	}

	othersTotal, err := s.repo.SumQuantityExcluding(ctx, slot.ID, member.ID)
	if err != nil {
		return nil, err
	}
	if othersTotal+in.Quantity > slot.Quantity {
		return nil, &SlotFullError{Remaining: slot.Quantity - othersTotal}
	}

	if existing == nil {
		row := &Signup{
			SlotID:   slot.ID,
			UserID:   member.ID,
			Quantity: in.Quantity,
			Notes:    in.Notes,
		}
		if err := s.repo.CreateSignup(ctx, row); err != nil {
			return nil, err
		}
		return row, nil
	}

	existing.Quantity = in.Quantity
	existing.Notes = in.Notes
	if err := s.repo.UpdateSignup(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove deletes the member's signup for a slot after verifying the slot
// belongs to the event in the URL. A missing signup row is a success.
func (s *Service) Remove(ctx context.Context, memberID, eventID, slotID string) error {
	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && slot.EventID != eventID) {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteSignup(ctx, slotID, memberID)
}

// DeleteByEvent removes every slot for an event along with the signups on
// those slots. Called when the event itself is deleted.
func (s *Service) DeleteByEvent(ctx context.Context, eventID string) error {
	return s.repo.DeleteByEvent(ctx, eventID)
}
