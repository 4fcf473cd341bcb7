package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
)

type fakeRepo struct {
	events    map[string]Event
	attending map[string]int
	userRSVPs map[string]*RSVPInfo // keyed event|user

	lastFilter ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:    map[string]Event{},
		attending: map[string]int{},
		userRSVPs: map[string]*RSVPInfo{},
	}
}

func (f *fakeRepo) Create(ctx context.Context, ev *Event) error {
	if ev.ID == "" {
		ev.ID = "evt-" + ev.Title
	}
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return Event{}, gorm.ErrRecordNotFound
	}
	return ev, nil
}

func (f *fakeRepo) Update(ctx context.Context, ev *Event) error {
	f.events[ev.ID] = *ev
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Event, int64, error) {
	f.lastFilter = filter
	var out []Event
	for _, ev := range f.events {
		if len(filter.Visibilities) > 0 {
			allowed := false
			for _, v := range filter.Visibilities {
				if ev.Visibility == v {
					allowed = true
					break
				}
			}
			if !allowed {
				continue
			}
		}
		out = append(out, ev)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) AttendingTotal(ctx context.Context, eventID string) (int, error) {
	return f.attending[eventID], nil
}

func (f *fakeRepo) UserRSVP(ctx context.Context, eventID, userID string) (*RSVPInfo, error) {
	return f.userRSVPs[eventID+"|"+userID], nil
}

type fakeSlotStore struct {
	created map[string][]SlotInput
	swept   []string
}

func (f *fakeSlotStore) CreateSlots(ctx context.Context, eventID string, slots []SlotInput) error {
	if f.created == nil {
		f.created = map[string][]SlotInput{}
	}
	f.created[eventID] = slots
	return nil
}

func (f *fakeSlotStore) DeleteByEvent(ctx context.Context, eventID string) error {
	f.swept = append(f.swept, eventID)
	return nil
}

type fakeRSVPStore struct {
	swept []string
}

func (f *fakeRSVPStore) DeleteByEvent(ctx context.Context, eventID string) error {
	f.swept = append(f.swept, eventID)
	return nil
}

func boardMember(id string) auth.Member {
	return auth.Member{ID: id, Role: auth.RoleBoard, IsRegistered: true}
}

func plainMember(id string) auth.Member {
	return auth.Member{ID: id, Role: auth.RoleMember, IsRegistered: true}
}

func seedEvent(repo *fakeRepo, id, visibility string, capacity *int) {
	repo.events[id] = Event{
		ID:         id,
		Title:      id,
		Visibility: visibility,
		Capacity:   capacity,
		StartTime:  time.Now().Add(24 * time.Hour),
		EndTime:    time.Now().Add(26 * time.Hour),
	}
}

func TestListEvents_VisibilityTiers(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "pub", VisibilityPublic, nil)
	seedEvent(repo, "mem", VisibilityMembers, nil)
	seedEvent(repo, "brd", VisibilityBoard, nil)
	svc := NewService(repo)

	events, total, err := svc.ListEvents(context.Background(), nil, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "anonymous callers see public only")
	assert.Len(t, events, 1)

	m := plainMember("u1")
	_, total, err = svc.ListEvents(context.Background(), &m, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "members see public and members tiers")

	b := boardMember("u2")
	_, total, err = svc.ListEvents(context.Background(), &b, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "board sees everything")
	assert.Empty(t, repo.lastFilter.Visibilities, "board listing is unrestricted")
}

func TestListEvents_Annotations(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "evt-1", VisibilityPublic, intPtr(20))
	repo.attending["evt-1"] = 15
	repo.userRSVPs["evt-1|u1"] = &RSVPInfo{ID: "r1", Status: "attending", GuestCount: 2}
	svc := NewService(repo)

	m := plainMember("u1")
	events, _, err := svc.ListEvents(context.Background(), &m, ListQuery{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NotNil(t, events[0].AvailableSpots)
	assert.Equal(t, 5, *events[0].AvailableSpots)
	require.NotNil(t, events[0].UserRSVP)
	assert.Equal(t, "r1", events[0].UserRSVP.ID)

	// Anonymous callers get spots but no user_rsvp.
	events, _, err = svc.ListEvents(context.Background(), nil, ListQuery{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].UserRSVP)
}

func TestListEvents_BoundsPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, _, err := svc.ListEvents(context.Background(), nil, ListQuery{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilter.Limit, "limit is capped at 100")
	assert.Equal(t, 0, repo.lastFilter.Offset, "negative offsets are clamped")

	_, _, err = svc.ListEvents(context.Background(), nil, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Limit, "default page size")
}

func TestGetEvent_VisibilityGate(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "brd", VisibilityBoard, nil)
	svc := NewService(repo)

	_, err := svc.GetEvent(context.Background(), nil, "brd")
	assert.ErrorIs(t, err, ErrForbidden)

	m := plainMember("u1")
	_, err = svc.GetEvent(context.Background(), &m, "brd")
	assert.ErrorIs(t, err, ErrForbidden)

	b := boardMember("u2")
	_, err = svc.GetEvent(context.Background(), &b, "brd")
	assert.NoError(t, err)

	_, err = svc.GetEvent(context.Background(), &b, "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCreateEvent(t *testing.T) {
	repo := newFakeRepo()
	slots := &fakeSlotStore{}
	svc := NewService(repo)
	svc.Slots = slots

	form := validForm()

	_, err := svc.CreateEvent(context.Background(), plainMember("u1"), form, nil)
	assert.ErrorIs(t, err, ErrForbidden, "only board/admin may create events")

	ev, err := svc.CreateEvent(context.Background(), boardMember("u2"), form, []SlotInput{
		{Title: "Setup crew", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", ev.CreatedBy)
	assert.Len(t, slots.created[ev.ID], 1, "slot batch lands against the new event")

	bad := form
	bad.Title = ""
	_, err = svc.CreateEvent(context.Background(), boardMember("u2"), bad, nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
}

func TestUpdateAndDeleteEvent_Authorization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.CreateEvent(context.Background(), boardMember("creator"), validForm(), nil)
	require.NoError(t, err)

	_, err = svc.UpdateEvent(context.Background(), plainMember("stranger"), created.ID, validForm())
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteEvent(context.Background(), plainMember("stranger"), created.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteEvent(context.Background(), boardMember("someone-on-board"), created.ID)
	assert.NoError(t, err, "board role may delete any event")
}

func TestDeleteEvent_SweepsSlotsAndRSVPs(t *testing.T) {
	repo := newFakeRepo()
	slots := &fakeSlotStore{}
	rsvps := &fakeRSVPStore{}
	svc := NewService(repo)
	svc.Slots = slots
	svc.RSVPs = rsvps

	created, err := svc.CreateEvent(context.Background(), boardMember("creator"), validForm(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(context.Background(), boardMember("creator"), created.ID))

	assert.Equal(t, []string{created.ID}, slots.swept, "slots and signups are cleared with the event")
	assert.Equal(t, []string{created.ID}, rsvps.swept, "rsvps are cleared with the event")
	_, ok := repo.events[created.ID]
	assert.False(t, ok, "event row itself is gone")
}
