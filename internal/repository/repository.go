package repository

import (
	"time"

	"github.com/halewood/onboarding-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// CompanyRepository defines the interface for company and membership data access
type CompanyRepository interface {
	// Create creates a new company
	Create(company *models.Company) error

	// FindByID finds a company by ID
	FindByID(id uint64) (*models.Company, error)

	// Patch updates only the given company columns
	Patch(id uint64, fields map[string]any) error

	// FindMember finds a specific company membership
	FindMember(companyID, userID uint64) (*models.CompanyMember, error)

	// UpsertMember inserts a membership or updates its role
	UpsertMember(member *models.CompanyMember) error

	// ListMembers lists all members of a company
	ListMembers(companyID uint64) ([]models.CompanyMember, error)

	// ListMembershipsByUser lists all companies a user is a member of
	ListMembershipsByUser(userID uint64) ([]models.CompanyMember, error)

	// FindServicesByKeys loads catalog services for the given keys
	FindServicesByKeys(keys []string) ([]models.Service, error)

	// UpsertCompanyServices marks the given services selected for a company
	UpsertCompanyServices(companyID uint64, serviceIDs []uint64) error

	// ListCompanyServices lists a company's service associations with the catalog rows preloaded
	ListCompanyServices(companyID uint64) ([]models.CompanyService, error)
}

// QuestionnaireRepository defines the interface for questionnaire data access
type QuestionnaireRepository interface {
	// Create creates a new questionnaire draft
	Create(questionnaire *models.Questionnaire) error

	// FindByID finds a questionnaire by ID
	FindByID(id uint64) (*models.Questionnaire, error)

	// FindLatestByCompany finds the most recently created questionnaire for a company
	FindLatestByCompany(companyID uint64) (*models.Questionnaire, error)

	// UpdateDraft refreshes a draft's selected services and keeps it in progress
	UpdateDraft(id uint64, selectedServices []string) error

	// UpsertResponse writes one (questionnaire, section) response row
	UpsertResponse(response *models.QuestionnaireResponse) error

	// ListResponses lists all response rows of a questionnaire
	ListResponses(questionnaireID uint64) ([]models.QuestionnaireResponse, error)

	// Finalize writes all section rows, marks the questionnaire submitted and
	// appends the audit entry within a single transaction.
	Finalize(questionnaireID uint64, responses []models.QuestionnaireResponse, submittedAt time.Time, audit *models.AuditLog) error
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create creates a new invite
	Create(invite *models.Invite) error

	// FindByToken finds an invite by its opaque token
	FindByToken(token string) (*models.Invite, error)

	// MarkAccepted marks an invite consumed
	MarkAccepted(id uint64) error
}

// AssetRepository defines the interface for asset metadata access
type AssetRepository interface {
	// Create registers asset metadata
	Create(asset *models.Asset) error

	// FindByID finds an asset by ID
	FindByID(id uint64) (*models.Asset, error)

	// ListByCompany lists a company's assets, newest first
	ListByCompany(companyID uint64) ([]models.Asset, error)
}

// SecretRepository defines the interface for encrypted credential access
type SecretRepository interface {
	// Create stores a sealed secret
	Create(secret *models.Secret) error

	// FindByID finds a secret by ID
	FindByID(id uint64) (*models.Secret, error)

	// ListByCompany lists a company's secrets, newest first
	ListByCompany(companyID uint64) ([]models.Secret, error)
}

// AuditFilter holds paging options for the activity feed
type AuditFilter struct {
	Page     int
	PageSize int
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append appends one audit entry
	Append(entry *models.AuditLog) error

	// ListByCompany returns a page of entries, most recent first, plus the total count
	ListByCompany(companyID uint64, filter AuditFilter) ([]models.AuditLog, int64, error)
}
