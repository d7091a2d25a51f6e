package dto

import (
	"time"

	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/services"
)

// CompanyDTO represents a company profile in API responses
type CompanyDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
	Industry     string `json:"industry,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
	Country      string `json:"country,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// CompanyServiceDTO represents one selected service
type CompanyServiceDTO struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// CompanySummaryDTO is one row of the companies list
type CompanySummaryDTO struct {
	CompanyDTO
	Role        models.MemberRole          `json:"role"`
	Status      models.QuestionnaireStatus `json:"status"`
	SubmittedAt *time.Time                 `json:"submitted_at"`
	Services    []string                   `json:"services"`
}

// AssetDTO represents asset metadata
type AssetDTO struct {
	ID        uint64    `json:"id"`
	Label     string    `json:"label"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SecretMetadataDTO represents a stored secret without its value
type SecretMetadataDTO struct {
	ID         uint64    `json:"id"`
	Label      string    `json:"label"`
	SecretType string    `json:"secret_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// SectionResponsesDTO holds one stored section's values
type SectionResponsesDTO struct {
	UpdatedAt time.Time      `json:"updated_at"`
	Values    map[string]any `json:"values"`
}

// QuestionnaireDTO represents a questionnaire with its responses keyed by
// storage section key
type QuestionnaireDTO struct {
	ID               uint64                         `json:"id"`
	Status           models.QuestionnaireStatus     `json:"status"`
	SelectedServices []string                       `json:"selected_services"`
	SubmittedAt      *time.Time                     `json:"submitted_at"`
	Responses        map[string]SectionResponsesDTO `json:"responses"`
}

// CompanyDetailDTO aggregates the company page payload
type CompanyDetailDTO struct {
	CompanyDTO
	Services      []CompanyServiceDTO `json:"services"`
	Assets        []AssetDTO          `json:"assets"`
	Secrets       []SecretMetadataDTO `json:"secrets"`
	Questionnaire *QuestionnaireDTO   `json:"questionnaire"`
}

// MemberDTO represents one company membership
type MemberDTO struct {
	UserID   uint64            `json:"user_id"`
	Email    string            `json:"email"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// AuditLogDTO represents one activity feed entry
type AuditLogDTO struct {
	ID         uint64         `json:"id"`
	Actor      uint64         `json:"actor"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type,omitempty"`
	TargetID   uint64         `json:"target_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToCompanyDTO converts a Company model to CompanyDTO
func ToCompanyDTO(company models.Company) CompanyDTO {
	return CompanyDTO{
		ID:           company.ID,
		Name:         company.Name,
		Website:      company.Website,
		Industry:     company.Industry,
		BusinessType: company.BusinessType,
		Country:      company.Country,
		Timezone:     company.Timezone,
		Notes:        company.Notes,
	}
}

// ToCompanySummaryDTO converts a service-layer summary to its response shape
func ToCompanySummaryDTO(summary services.CompanySummary) CompanySummaryDTO {
	dto := CompanySummaryDTO{
		CompanyDTO:  ToCompanyDTO(summary.Company),
		Role:        summary.Role,
		Status:      summary.Status,
		SubmittedAt: summary.SubmittedAt,
		Services:    summary.Services,
	}
	if dto.Services == nil {
		dto.Services = []string{}
	}
	return dto
}

// ToCompanyServiceDTO converts a company-service association
func ToCompanyServiceDTO(cs models.CompanyService) CompanyServiceDTO {
	return CompanyServiceDTO{
		Key:    cs.Service.Key,
		Label:  cs.Service.Label,
		Status: string(cs.Status),
	}
}

// ToAssetDTO converts an Asset model
func ToAssetDTO(asset models.Asset) AssetDTO {
	return AssetDTO{
		ID:        asset.ID,
		Label:     asset.Label,
		Path:      asset.Path,
		Kind:      asset.Kind,
		CreatedAt: asset.CreatedAt,
	}
}

// ToSecretMetadataDTO converts a Secret model, omitting the sealed value
func ToSecretMetadataDTO(secret models.Secret) SecretMetadataDTO {
	return SecretMetadataDTO{
		ID:         secret.ID,
		Label:      secret.Label,
		SecretType: secret.SecretType,
		CreatedAt:  secret.CreatedAt,
	}
}

// ToMemberDTO converts a CompanyMember with its user preloaded
func ToMemberDTO(member models.CompanyMember) MemberDTO {
	return MemberDTO{
		UserID:   member.UserID,
		Email:    member.User.Email,
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}
}

// ToAuditLogDTO converts an AuditLog model
func ToAuditLogDTO(entry models.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:         entry.ID,
		Actor:      entry.Actor,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
}

// ToCompanyDetailDTO converts the aggregated company detail
func ToCompanyDetailDTO(detail *services.CompanyDetail) CompanyDetailDTO {
	dto := CompanyDetailDTO{
		CompanyDTO: ToCompanyDTO(*detail.Company),
		Services:   make([]CompanyServiceDTO, len(detail.Services)),
		Assets:     make([]AssetDTO, len(detail.Assets)),
		Secrets:    make([]SecretMetadataDTO, len(detail.Secrets)),
	}
	for i, cs := range detail.Services {
		dto.Services[i] = ToCompanyServiceDTO(cs)
	}
	for i, asset := range detail.Assets {
		dto.Assets[i] = ToAssetDTO(asset)
	}
	for i, secret := range detail.Secrets {
		dto.Secrets[i] = ToSecretMetadataDTO(secret)
	}

	if detail.Questionnaire != nil {
		questionnaire := QuestionnaireDTO{
			ID:               detail.Questionnaire.ID,
			Status:           detail.Questionnaire.Status,
			SelectedServices: detail.Questionnaire.SelectedServices,
			SubmittedAt:      detail.Questionnaire.SubmittedAt,
			Responses:        make(map[string]SectionResponsesDTO, len(detail.Responses)),
		}
		for _, response := range detail.Responses {
			questionnaire.Responses[response.SectionKey] = SectionResponsesDTO{
				UpdatedAt: response.UpdatedAt,
				Values:    response.Responses,
			}
		}
		if questionnaire.SelectedServices == nil {
			questionnaire.SelectedServices = []string{}
		}
		dto.Questionnaire = &questionnaire
	}

	return dto
}
