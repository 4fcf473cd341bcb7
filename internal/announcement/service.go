package announcement

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/brookfield-ptsa/ptsa-backend/internal/auth"
	"github.com/brookfield-ptsa/ptsa-backend/utils"
)

var (
	ErrForbidden            = errors.New("Only board members and admins can publish announcements")
	ErrAnnouncementNotFound = errors.New("Announcement not found")
	ErrInvalidAnnouncement  = errors.New("title and body are required")
)

// Publisher enqueues a delivery job for the email worker. Backed by Kafka in
// production, faked in tests.
type Publisher func(ctx context.Context, key string, payload interface{}) error

type Service struct {
	repo    Repository
	publish Publisher
}

func NewService(repo Repository, publish Publisher) *Service {
	return &Service{repo: repo, publish: publish}
}

type PublishInput struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	AudienceRoles []string `json:"audience_roles"`
	SendEmail     bool     `json:"send_email"`
}

// Publish persists the announcement and, when email delivery is requested,
// enqueues a delivery job. Queue failures are logged, never surfaced; the
// announcement itself already committed.
func (s *Service) Publish(ctx context.Context, creator auth.Member, in PublishInput) (*Announcement, error) {
	if !creator.IsBoardOrAdmin() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, ErrInvalidAnnouncement
	}
	for _, role := range in.AudienceRoles {
		if !auth.ValidRole(role) {
			return nil, errors.New("invalid audience role: " + role)
		}
	}

	row := &Announcement{
		Title:     in.Title,
		Body:      in.Body,
		SendEmail: in.SendEmail,
		CreatedBy: creator.ID,
	}
	if len(in.AudienceRoles) > 0 {
		raw, err := json.Marshal(in.AudienceRoles)
		if err == nil {
			row.AudienceRoles = raw
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	if in.SendEmail && s.publish != nil {
		job := DeliveryJob{
			AnnouncementID: row.ID,
			Subject:        row.Title,
			Body:           row.Body,
			AudienceRoles:  in.AudienceRoles,
		}
		if err := s.publish(ctx, row.ID, job); err != nil {
			log.Printf("announcement %s: failed to enqueue delivery: %v", row.ID, err)
		}
	}

	return row, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Announcement, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (Announcement, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Announcement{}, ErrAnnouncementNotFound
	}
	return row, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Member, id string) error {
	if !caller.IsBoardOrAdmin() {
		return ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrAnnouncementNotFound
	}
	return s.repo.Delete(ctx, id)
}

// RecipientStore resolves the consenting audience for a delivery job.
type RecipientStore interface {
	GetConsentedEmails(roles []string) ([]string, error)
}

// NewDeliveryHandler returns the consumer callback that turns a queued job
// into outbound mail. Recipients are filtered to registered members who have
// granted email consent; send failures are logged per recipient and never
// retried here.
func NewDeliveryHandler(recipients RecipientStore, mailer *utils.Mailer) func([]byte) error {
	return func(payload []byte) error {
		var job DeliveryJob
		if err := json.Unmarshal(payload, &job); err != nil {
			log.Printf("announcement delivery: bad payload: %v", err)
			return nil // poison message, drop it
		}

		emails, err := recipients.GetConsentedEmails(job.AudienceRoles)
		if err != nil {
			return err
		}
		if len(emails) == 0 {
			log.Printf("announcement %s: no consenting recipients", job.AnnouncementID)
			return nil
		}

		mailer.SendBulkAsync(emails, job.Subject, job.Body)
		return nil
	}
}
