package repository

import (
	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
)

// GormAssetRepository is a GORM implementation of AssetRepository
type GormAssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &GormAssetRepository{db: db}
}

// Create registers asset metadata
func (r *GormAssetRepository) Create(asset *models.Asset) error {
	return r.db.Create(asset).Error
}

// FindByID finds an asset by ID
func (r *GormAssetRepository) FindByID(id uint64) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListByCompany lists a company's assets, newest first
func (r *GormAssetRepository) ListByCompany(companyID uint64) ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}
