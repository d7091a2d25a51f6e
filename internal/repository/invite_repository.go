package repository

import (
	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
)

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create creates a new invite
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByToken finds an invite by its opaque token with the company preloaded
func (r *GormInviteRepository) FindByToken(token string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Preload("Company").
		Where("token = ?", token).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkAccepted marks an invite consumed
func (r *GormInviteRepository) MarkAccepted(id uint64) error {
	return r.db.Model(&models.Invite{}).
		Where("id = ?", id).
		Update("accepted", true).Error
}
