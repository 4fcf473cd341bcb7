package consent

import (
	"context"
	"errors"
)

var ErrInvalidConsentType = errors.New("invalid consent type")

var validTypes = map[string]bool{
	TypeEmailUpdates: true,
	TypeDirectory:    true,
}

// MemberStore updates the denormalized consent flag on the member row so
// recipient queries stay a single-table filter.
type MemberStore interface {
	UpdateEmailConsent(id string, granted bool) error
}

type Service struct {
	repo    Repository
	members MemberStore
}

func NewService(repo Repository, members MemberStore) *Service {
	return &Service{repo: repo, members: members}
}

// Record appends a consent decision and, for email consent, syncs the flag
// on the member row.
func (s *Service) Record(ctx context.Context, userID, consentType string, granted bool, ip string) (*ConsentRecord, error) {
	if !validTypes[consentType] {
		return nil, ErrInvalidConsentType
	}

	record := &ConsentRecord{
		UserID:      userID,
		ConsentType: consentType,
		Granted:     granted,
		IPAddress:   ip,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if consentType == TypeEmailUpdates {
		if err := s.members.UpdateEmailConsent(userID, granted); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// History returns the member's consent trail, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]ConsentRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}
