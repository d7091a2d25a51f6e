package repository

import (
	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
)

// GormSecretRepository is a GORM implementation of SecretRepository
type GormSecretRepository struct {
	db *gorm.DB
}

// NewSecretRepository creates a new SecretRepository
func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &GormSecretRepository{db: db}
}

// Create stores a sealed secret
func (r *GormSecretRepository) Create(secret *models.Secret) error {
	return r.db.Create(secret).Error
}

// FindByID finds a secret by ID
func (r *GormSecretRepository) FindByID(id uint64) (*models.Secret, error) {
	var secret models.Secret
	if err := r.db.First(&secret, id).Error; err != nil {
		return nil, err
	}
	return &secret, nil
}

// ListByCompany lists a company's secrets, newest first
func (r *GormSecretRepository) ListByCompany(companyID uint64) ([]models.Secret, error) {
	var secrets []models.Secret
	if err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&secrets).Error; err != nil {
		return nil, err
	}
	return secrets, nil
}
