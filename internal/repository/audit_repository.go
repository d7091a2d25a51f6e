package repository

import (
	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
)

// GormAuditRepository is a GORM implementation of AuditRepository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// Append appends one audit entry. Entries are never updated or deleted.
func (r *GormAuditRepository) Append(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByCompany returns a page of entries, most recent first
func (r *GormAuditRepository) ListByCompany(companyID uint64, filter AuditFilter) ([]models.AuditLog, int64, error) {
	var total int64
	if err := r.db.Model(&models.AuditLog{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	var entries []models.AuditLog
	if err := r.db.
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
