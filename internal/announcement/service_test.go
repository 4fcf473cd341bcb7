package announcement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brookfield-ptsa/ptsa-backend/config"
	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/utils"
)

type fakeRepo struct {
	rows map[string]Announcement
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]Announcement{}}
}

func (f *fakeRepo) Create(ctx context.Context, row *Announcement) error {
	if row.ID == "" {
		row.ID = "ann-" + row.Title
	}
	f.rows[row.ID] = *row
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Announcement, error) {
	row, ok := f.rows[id]
	if !ok {
		return Announcement{}, errors.New("record not found")
	}
	return row, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]Announcement, int64, error) {
	var out []Announcement
	for _, row := range f.rows {
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func boardMember() auth.Member {
	return auth.Member{ID: "b1", Role: auth.RoleBoard, IsRegistered: true}
}

func TestPublish_BoardOnly(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	plain := auth.Member{ID: "m1", Role: auth.RoleMember, IsRegistered: true}
	_, err := svc.Publish(context.Background(), plain, PublishInput{Title: "Hi", Body: "There"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPublish_EnqueuesDeliveryWhenEmailRequested(t *testing.T) {
	var captured []DeliveryJob
	publisher := func(ctx context.Context, key string, payload interface{}) error {
		captured = append(captured, payload.(DeliveryJob))
		return nil
	}
	svc := NewService(newFakeRepo(), publisher)

	row, err := svc.Publish(context.Background(), boardMember(), PublishInput{
		Title:         "Fall Carnival",
		Body:          "Volunteers needed",
		AudienceRoles: []string{auth.RoleMember},
		SendEmail:     true,
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, row.ID, captured[0].AnnouncementID)
	assert.Equal(t, "Fall Carnival", captured[0].Subject)
	assert.Equal(t, []string{auth.RoleMember}, captured[0].AudienceRoles)
}

func TestPublish_SkipsQueueWithoutEmailFlag(t *testing.T) {
	called := false
	publisher := func(ctx context.Context, key string, payload interface{}) error {
		called = true
		return nil
	}
	svc := NewService(newFakeRepo(), publisher)

	_, err := svc.Publish(context.Background(), boardMember(), PublishInput{
		Title: "Minutes posted", Body: "See the site",
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestPublish_QueueFailureDoesNotSurface(t *testing.T) {
	publisher := func(ctx context.Context, key string, payload interface{}) error {
		return errors.New("broker down")
	}
	svc := NewService(newFakeRepo(), publisher)

	_, err := svc.Publish(context.Background(), boardMember(), PublishInput{
		Title: "Hi", Body: "There", SendEmail: true,
	})
	assert.NoError(t, err, "the announcement already committed; queue errors are logged only")
}

func TestPublish_RejectsInvalid(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Publish(context.Background(), boardMember(), PublishInput{Title: " ", Body: "x"})
	assert.ErrorIs(t, err, ErrInvalidAnnouncement)

	_, err = svc.Publish(context.Background(), boardMember(), PublishInput{
		Title: "Hi", Body: "There", AudienceRoles: []string{"janitor"},
	})
	assert.Error(t, err)
}

type fakeRecipients struct {
	emails    []string
	lastRoles []string
}

func (f *fakeRecipients) GetConsentedEmails(roles []string) ([]string, error) {
	f.lastRoles = roles
	return f.emails, nil
}

func TestDeliveryHandler(t *testing.T) {
	recipients := &fakeRecipients{emails: []string{"a@example.com"}}
	mailer := utils.NewMailer(&config.Config{})
	handle := NewDeliveryHandler(recipients, mailer)

	payload, _ := json.Marshal(DeliveryJob{
		AnnouncementID: "ann-1",
		Subject:        "Hi",
		Body:           "There",
		AudienceRoles:  []string{auth.RoleMember},
	})
	require.NoError(t, handle(payload))
	assert.Equal(t, []string{auth.RoleMember}, recipients.lastRoles,
		"audience roles flow through to the recipient query")

	assert.NoError(t, handle([]byte("not json")),
		"poison messages are dropped, not retried")
}
