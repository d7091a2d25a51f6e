package repository

import (
	"time"

	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create creates a new company
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Patch updates only the given columns. Callers decide which fields to touch;
// absent keys are left as they are.
func (r *GormCompanyRepository) Patch(id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Company{}).Where("id = ?", id).Updates(fields).Error
}

// FindMember finds a specific company membership
func (r *GormCompanyRepository) FindMember(companyID, userID uint64) (*models.CompanyMember, error) {
	var member models.CompanyMember
	if err := r.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpsertMember inserts a membership or updates the role of an existing one
func (r *GormCompanyRepository) UpsertMember(member *models.CompanyMember) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(member).Error
}

// ListMembers lists all members of a company
func (r *GormCompanyRepository) ListMembers(companyID uint64) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	if err := r.db.Preload("User").
		Where("company_id = ?", companyID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser lists all companies a user is a member of
func (r *GormCompanyRepository) ListMembershipsByUser(userID uint64) ([]models.CompanyMember, error) {
	var memberships []models.CompanyMember
	if err := r.db.Preload("Company").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindServicesByKeys loads catalog services for the given keys
func (r *GormCompanyRepository) FindServicesByKeys(keys []string) ([]models.Service, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var services []models.Service
	if err := r.db.Where("key IN ?", keys).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// UpsertCompanyServices marks the given services selected for a company
func (r *GormCompanyRepository) UpsertCompanyServices(companyID uint64, serviceIDs []uint64) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.CompanyService, len(serviceIDs))
	for i, serviceID := range serviceIDs {
		rows[i] = models.CompanyService{
			CompanyID: companyID,
			ServiceID: serviceID,
			Status:    models.ServiceStatusSelected,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "service_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rows).Error
}

// ListCompanyServices lists a company's service associations
func (r *GormCompanyRepository) ListCompanyServices(companyID uint64) ([]models.CompanyService, error) {
	var services []models.CompanyService
	if err := r.db.Preload("Service").
		Where("company_id = ?", companyID).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
