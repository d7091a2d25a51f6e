package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halewood/onboarding-api/internal/forms"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
)

var (
	ErrAccessTypeRequired = errors.New("select an access type")
)

// CompanyService provides the read-side company views, the activity feed and
// access-request logging.
type CompanyService struct {
	companyRepo       repository.CompanyRepository
	questionnaireRepo repository.QuestionnaireRepository
	assetRepo         repository.AssetRepository
	secretRepo        repository.SecretRepository
	auditRepo         repository.AuditRepository
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo repository.CompanyRepository, questionnaireRepo repository.QuestionnaireRepository, assetRepo repository.AssetRepository, secretRepo repository.SecretRepository, auditRepo repository.AuditRepository) *CompanyService {
	return &CompanyService{
		companyRepo:       companyRepo,
		questionnaireRepo: questionnaireRepo,
		assetRepo:         assetRepo,
		secretRepo:        secretRepo,
		auditRepo:         auditRepo,
	}
}

// CompanySummary is one row of the companies list.
type CompanySummary struct {
	Company     models.Company
	Role        models.MemberRole
	Status      models.QuestionnaireStatus
	SubmittedAt *time.Time
	Services    []string
}

// ListForUser returns the companies the user belongs to with their latest
// questionnaire status and selected service labels.
func (s *CompanyService) ListForUser(userID uint64) ([]CompanySummary, error) {
	memberships, err := s.companyRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	summaries := make([]CompanySummary, 0, len(memberships))
	for _, membership := range memberships {
		summary := CompanySummary{
			Company: membership.Company,
			Role:    membership.Role,
			Status:  models.QuestionnaireInProgress,
		}

		questionnaire, err := s.questionnaireRepo.FindLatestByCompany(membership.CompanyID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load questionnaire: %w", err)
		}
		if questionnaire != nil {
			summary.Status = questionnaire.Status
			summary.SubmittedAt = questionnaire.SubmittedAt
			for _, key := range questionnaire.SelectedServices {
				summary.Services = append(summary.Services, forms.ServiceKeyLabel(key))
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// CompanyDetail aggregates everything the company page shows.
type CompanyDetail struct {
	Company       *models.Company
	Services      []models.CompanyService
	Assets        []models.Asset
	Secrets       []models.Secret
	Questionnaire *models.Questionnaire
	Responses     []models.QuestionnaireResponse
}

// Members lists a company's memberships with their users preloaded.
func (s *CompanyService) Members(companyID uint64) ([]models.CompanyMember, error) {
	members, err := s.companyRepo.ListMembers(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// Detail loads the company profile, services, asset and secret metadata and
// the latest questionnaire with its responses.
func (s *CompanyService) Detail(companyID uint64) (*CompanyDetail, error) {
	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	detail := &CompanyDetail{Company: company}

	detail.Services, err = s.companyRepo.ListCompanyServices(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company services: %w", err)
	}

	detail.Assets, err = s.assetRepo.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	detail.Secrets, err = s.secretRepo.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}

	questionnaire, err := s.questionnaireRepo.FindLatestByCompany(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, nil
		}
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}
	detail.Questionnaire = questionnaire

	detail.Responses, err = s.questionnaireRepo.ListResponses(questionnaire.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire responses: %w", err)
	}

	return detail, nil
}

// LatestResponses returns the most recent questionnaire's response rows,
// used by the CSV export.
func (s *CompanyService) LatestResponses(companyID uint64) ([]models.QuestionnaireResponse, error) {
	questionnaire, err := s.questionnaireRepo.FindLatestByCompany(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}

	responses, err := s.questionnaireRepo.ListResponses(questionnaire.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire responses: %w", err)
	}
	return responses, nil
}

// ActivityFeed returns a page of the company's audit log, most recent first.
func (s *CompanyService) ActivityFeed(companyID uint64, page, pageSize int) ([]models.AuditLog, int64, error) {
	entries, total, err := s.auditRepo.ListByCompany(companyID, repository.AuditFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load activity feed: %w", err)
	}
	return entries, total, nil
}

// RequestAccess logs an access request for the team. The audit trail is the
// only state this operation creates.
func (s *CompanyService) RequestAccess(companyID, actorID uint64, accessType, notes string) error {
	if accessType == "" {
		return ErrAccessTypeRequired
	}

	entry := &models.AuditLog{
		CompanyID:  companyID,
		Actor:      actorID,
		Action:     models.AuditAccessRequest,
		TargetType: "integration",
		Details: datatypes.JSONMap{
			"access_type": accessType,
			"notes":       notes,
		},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return fmt.Errorf("failed to log access request: %w", err)
	}
	return nil
}
