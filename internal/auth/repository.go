package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(member *Member) error
	FindByEmail(email string) (*Member, error)
	FindByID(id string) (Member, error)
	Update(member *Member) error
	UpdateRole(id string, role string) error
	UpdateEmailConsent(id string, granted bool) error

	// Recipients for announcement delivery: active registered members
	// matching the audience, filtered to those with email consent.
	GetConsentedEmails(roles []string) ([]string, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(member *Member) error {
	return r.db.Create(member).Error
}

func (r *repository) FindByEmail(email string) (*Member, error) {
	var m Member
	err := r.db.Where("email = ?", email).First(&m).Error
	return &m, err
}

func (r *repository) FindByID(id string) (Member, error) {
	var m Member
	err := r.db.First(&m, "id = ?", id).Error
	return m, err
}

func (r *repository) Update(member *Member) error {
	return r.db.Save(member).Error
}

func (r *repository) UpdateRole(id string, role string) error {
	return r.db.Model(&Member{}).Where("id = ?", id).Update("role", role).Error
}

func (r *repository) UpdateEmailConsent(id string, granted bool) error {
	return r.db.Model(&Member{}).Where("id = ?", id).Update("email_consent", granted).Error
}

func (r *repository) GetConsentedEmails(roles []string) ([]string, error) {
	var emails []string
	query := r.db.Model(&Member{}).
		Select("email").
		Where("is_registered = ? AND email_consent = ?", true, true)
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	}
	err := query.Scan(&emails).Error
	return emails, err
}
