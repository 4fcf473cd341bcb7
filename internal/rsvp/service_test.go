package rsvp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/internal/event"
)

type fakeEventStore struct {
	events map[string]event.Event
	err    error
}

func (f *fakeEventStore) GetByID(ctx context.Context, id string) (event.Event, error) {
	if f.err != nil {
		return event.Event{}, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return event.Event{}, gorm.ErrRecordNotFound
	}
	return ev, nil
}

type fakeRepo struct {
	rows []*RSVP
}

func (f *fakeRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error) {
	for _, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, row *RSVP) error {
	row.ID = "rsvp-" + row.UserID
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, row *RSVP) error {
	return nil
}

func (f *fakeRepo) DeleteByEventAndUser(ctx context.Context, eventID, userID string) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.EventID != eventID || row.UserID != userID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.EventID != eventID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeRepo) SumAttendingExcluding(ctx context.Context, eventID, excludeUserID string) (int, error) {
	total := 0
	for _, row := range f.rows {
		if row.EventID == eventID && row.Status == StatusAttending && row.UserID != excludeUserID {
			total += 1 + row.GuestCount
		}
	}
	return total, nil
}

func intPtr(v int) *int { return &v }

func member(id string) auth.Member {
	return auth.Member{ID: id, Role: auth.RoleMember, IsRegistered: true}
}

func openEvent(capacity *int, allowGuests bool) event.Event {
	return event.Event{
		ID:           "evt-1",
		Title:        "Bake Sale",
		Visibility:   event.VisibilityPublic,
		RequiresRSVP: true,
		AllowGuests:  allowGuests,
		Capacity:     capacity,
		StartTime:    time.Now().Add(24 * time.Hour),
		EndTime:      time.Now().Add(26 * time.Hour),
	}
}

// seedAttending fills the repo with attending rows from other members whose
// reserved spots (1 + guests each) sum to the given total.
func seedAttending(repo *fakeRepo, eventID string, total int) {
	i := 0
	for total > 0 {
		guests := 2
		if total < 3 {
			guests = total - 1
		}
		repo.rows = append(repo.rows, &RSVP{
			ID:         "seed",
			EventID:    eventID,
			UserID:     "other-" + strings.Repeat("x", i+1),
			Status:     StatusAttending,
			GuestCount: guests,
		})
		total -= 1 + guests
		i++
	}
}

func newTestService(ev event.Event) (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	events := &fakeEventStore{events: map[string]event.Event{ev.ID: ev}}
	return NewService(repo, events), repo
}

func TestUpsert_RejectsWhenEventFull(t *testing.T) {
	// Capacity 20 with 15 spots already reserved; asking for 6 more must fail.
	svc, repo := newTestService(openEvent(intPtr(20), true))
	seedAttending(repo, "evt-1", 15)

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Equal(t, "Event is full", err.Error())
}

func TestUpsert_AcceptsWithinCapacity(t *testing.T) {
	// Same event; a single attendee (15+1=16 <= 20) fits.
	svc, repo := newTestService(openEvent(intPtr(20), true))
	seedAttending(repo, "evt-1", 15)

	row, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAttending, row.Status)
	assert.Equal(t, "evt-1", row.EventID)
	assert.Equal(t, "me", row.UserID, "identity comes from the session, never the body")
}

func TestUpsert_ExcludesOwnPriorReservationFromBaseline(t *testing.T) {
	// Capacity 20, others hold 15, caller already holds 3 (self + 2 guests).
	// Growing to 5 spots works because the prior 3 are freed first: 15+5=20.
	svc, repo := newTestService(openEvent(intPtr(20), true))
	seedAttending(repo, "evt-1", 15)
	repo.rows = append(repo.rows, &RSVP{
		ID:         "mine",
		EventID:    "evt-1",
		UserID:     "me",
		Status:     StatusAttending,
		GuestCount: 2,
	})

	row, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "mine", row.ID, "existing row is updated, never duplicated")
	assert.Equal(t, 4, row.GuestCount)

	count := 0
	for _, r := range repo.rows {
		if r.UserID == "me" {
			count++
		}
	}
	assert.Equal(t, 1, count, "one row per (event, user) pair")
}

func TestUpsert_ResubmitSameValuesNeverFails(t *testing.T) {
	// At exact capacity, resubmitting identical values must not double count.
	svc, repo := newTestService(openEvent(intPtr(20), true))
	seedAttending(repo, "evt-1", 15)
	repo.rows = append(repo.rows, &RSVP{
		ID: "mine", EventID: "evt-1", UserID: "me",
		Status: StatusAttending, GuestCount: 4,
	})

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 4,
	})
	assert.NoError(t, err)
}

func TestUpsert_UnlimitedCapacity(t *testing.T) {
	svc, repo := newTestService(openEvent(nil, true))
	seedAttending(repo, "evt-1", 500)

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 10,
	})
	assert.NoError(t, err, "nil capacity never rejects")
}

func TestUpsert_ZeroCapacityAdmitsNobody(t *testing.T) {
	svc, _ := newTestService(openEvent(intPtr(0), true))

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status: StatusAttending,
	})
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestUpsert_NonAttendingSkipsCapacityCheck(t *testing.T) {
	svc, repo := newTestService(openEvent(intPtr(1), true))
	seedAttending(repo, "evt-1", 1)

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status: StatusMaybe,
	})
	assert.NoError(t, err, "maybe responses do not reserve spots")
}

func TestUpsert_GuestsNotAllowed(t *testing.T) {
	svc, _ := newTestService(openEvent(intPtr(20), false))

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status:     StatusAttending,
		GuestCount: 2,
	})
	assert.ErrorIs(t, err, ErrGuestsNotAllowed)

	_, err = svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status: StatusAttending,
	})
	assert.NoError(t, err, "zero guests is fine when guests are disallowed")
}

func TestUpsert_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService(openEvent(intPtr(20), true))

	var vErr *ValidationError

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{Status: "yes"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "status")

	_, err = svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status: StatusAttending, GuestCount: 11,
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "guest_count")

	_, err = svc.Upsert(context.Background(), member("me"), "evt-1", Input{
		Status: StatusAttending, Notes: strings.Repeat("n", 501),
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "notes")
}

func TestUpsert_GateOrdering(t *testing.T) {
	ev := openEvent(intPtr(20), true)

	t.Run("unregistered member", func(t *testing.T) {
		svc, _ := newTestService(ev)
		m := member("me")
		m.IsRegistered = false
		_, err := svc.Upsert(context.Background(), m, "evt-1", Input{Status: StatusAttending})
		assert.ErrorIs(t, err, ErrNotAMember)
	})

	t.Run("event missing", func(t *testing.T) {
		svc, _ := newTestService(ev)
		_, err := svc.Upsert(context.Background(), member("me"), "evt-404", Input{Status: StatusAttending})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("board visibility blocks plain members", func(t *testing.T) {
		boardEv := ev
		boardEv.Visibility = event.VisibilityBoard
		svc, _ := newTestService(boardEv)
		_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{Status: StatusAttending})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rsvp not required", func(t *testing.T) {
		noRSVP := ev
		noRSVP.RequiresRSVP = false
		svc, _ := newTestService(noRSVP)
		_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{Status: StatusAttending})
		assert.ErrorIs(t, err, ErrRSVPNotRequired)
	})

	t.Run("event already started", func(t *testing.T) {
		started := ev
		started.StartTime = time.Now().Add(-time.Hour)
		svc, _ := newTestService(started)
		_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{Status: StatusAttending})
		assert.ErrorIs(t, err, ErrEventStarted)
	})
}

func TestRemove_IsIdempotent(t *testing.T) {
	svc, repo := newTestService(openEvent(intPtr(20), true))

	require.NoError(t, svc.Remove(context.Background(), "me", "evt-1"),
		"deleting a non-existent RSVP is a success")

	repo.rows = append(repo.rows, &RSVP{
		ID: "mine", EventID: "evt-1", UserID: "me", Status: StatusAttending,
	})
	require.NoError(t, svc.Remove(context.Background(), "me", "evt-1"))
	assert.Empty(t, repo.rows)

	assert.NoError(t, svc.Remove(context.Background(), "me", "evt-1"),
		"repeat delete still succeeds")
}

func TestUpsert_StorageErrorIsNotNotFound(t *testing.T) {
	repo := &fakeRepo{}
	boom := errors.New("connection refused")
	svc := NewService(repo, &fakeEventStore{err: boom})

	_, err := svc.Upsert(context.Background(), member("me"), "evt-1", Input{Status: StatusAttending})
	assert.ErrorIs(t, err, boom, "a failed lookup is not the same as a missing event")
	assert.NotErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteByEvent_ClearsOnlyThatEvent(t *testing.T) {
	svc, repo := newTestService(openEvent(intPtr(20), true))
	repo.rows = append(repo.rows,
		&RSVP{ID: "a", EventID: "evt-1", UserID: "u1", Status: StatusAttending},
		&RSVP{ID: "b", EventID: "evt-1", UserID: "u2", Status: StatusMaybe},
		&RSVP{ID: "c", EventID: "evt-2", UserID: "u1", Status: StatusAttending},
	)

	require.NoError(t, svc.DeleteByEvent(context.Background(), "evt-1"))
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "evt-2", repo.rows[0].EventID)
}
