package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halewood/onboarding-api/internal/forms"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
)

var (
	ErrCompanyNameRequired   = errors.New("please provide the company name before saving progress")
	ErrUnknownSection        = errors.New("unknown questionnaire section")
	ErrCompanyNotFound       = errors.New("company not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrNotCompanyMember      = errors.New("you are not a member of this company")
	ErrQuestionnaireMismatch = errors.New("questionnaire does not belong to this company")
)

// IntakeService implements the multi-step intake workflow: resolving the
// draft entities, saving one section at a time and finalizing a submission.
type IntakeService struct {
	companyRepo       repository.CompanyRepository
	questionnaireRepo repository.QuestionnaireRepository
	auditRepo         repository.AuditRepository
}

// NewIntakeService creates a new IntakeService.
func NewIntakeService(companyRepo repository.CompanyRepository, questionnaireRepo repository.QuestionnaireRepository, auditRepo repository.AuditRepository) *IntakeService {
	return &IntakeService{
		companyRepo:       companyRepo,
		questionnaireRepo: questionnaireRepo,
		auditRepo:         auditRepo,
	}
}

// DraftContext carries the identity of a draft across wizard steps. Zero
// values mean "not created yet"; the server holds no draft state itself.
type DraftContext struct {
	CompanyID       uint64
	QuestionnaireID uint64
}

// SaveSectionInput represents one section save of the intake wizard.
type SaveSectionInput struct {
	SectionKey string
	Values     map[string]any
	Context    DraftContext
}

// SaveSectionResult returns the resolved draft identity to the caller so the
// next step can skip re-resolution.
type SaveSectionResult struct {
	CompanyID       uint64
	QuestionnaireID uint64
}

type draftEntities struct {
	companyID       uint64
	questionnaireID uint64
	serviceKeys     []string
}

// stringPatch reads one field with patch semantics: absent key means keep,
// explicit null means clear, a string sets the trimmed value.
func stringPatch(values map[string]any, key string) *string {
	raw, present := values[key]
	if !present {
		return nil
	}
	if raw == nil {
		empty := ""
		return &empty
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}

// ensureDraft creates or updates the company, membership, selected services
// and questionnaire header for the current wizard state.
func (s *IntakeService) ensureDraft(values map[string]any, userID uint64, ctx DraftContext) (*draftEntities, error) {
	serviceKeys := forms.ResolveServiceKeys(forms.StringSlice(values["selected_services"]))

	name := stringPatch(values, "company_name")
	website := stringPatch(values, "website")
	industry := stringPatch(values, "industry")
	businessType := stringPatch(values, "business_type")
	country := stringPatch(values, "country")
	timezone := stringPatch(values, "timezone")

	companyID := ctx.CompanyID

	if companyID == 0 {
		if name == nil || *name == "" {
			return nil, ErrCompanyNameRequired
		}

		company := &models.Company{
			Name:         *name,
			Website:      deref(website),
			Industry:     deref(industry),
			BusinessType: deref(businessType),
			Country:      deref(country),
			Timezone:     deref(timezone),
		}
		if err := s.companyRepo.Create(company); err != nil {
			return nil, fmt.Errorf("failed to create company: %w", err)
		}
		companyID = company.ID

		member := &models.CompanyMember{
			CompanyID: companyID,
			UserID:    userID,
			Role:      models.RoleClientAdmin,
			CreatedAt: time.Now(),
		}
		if err := s.companyRepo.UpsertMember(member); err != nil {
			return nil, fmt.Errorf("failed to attach account to company: %w", err)
		}
	} else {
		if _, err := s.companyRepo.FindByID(companyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCompanyNotFound
			}
			return nil, fmt.Errorf("failed to find company: %w", err)
		}

		if _, err := s.companyRepo.FindMember(companyID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotCompanyMember
			}
			return nil, fmt.Errorf("failed to verify membership: %w", err)
		}

		patch := map[string]any{"updated_at": time.Now()}
		if name != nil && *name != "" {
			patch["name"] = *name
		}
		if website != nil {
			patch["website"] = *website
		}
		if industry != nil {
			patch["industry"] = *industry
		}
		if businessType != nil {
			patch["business_type"] = *businessType
		}
		if country != nil {
			patch["country"] = *country
		}
		if timezone != nil {
			patch["timezone"] = *timezone
		}

		if err := s.companyRepo.Patch(companyID, patch); err != nil {
			return nil, fmt.Errorf("failed to update company: %w", err)
		}
	}

	if len(serviceKeys) > 0 {
		services, err := s.companyRepo.FindServicesByKeys(serviceKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to load service catalog: %w", err)
		}
		serviceIDs := make([]uint64, len(services))
		for i, service := range services {
			serviceIDs[i] = service.ID
		}
		if err := s.companyRepo.UpsertCompanyServices(companyID, serviceIDs); err != nil {
			return nil, fmt.Errorf("failed to connect services to company: %w", err)
		}
	}

	questionnaireID := ctx.QuestionnaireID

	if questionnaireID == 0 {
		questionnaire := &models.Questionnaire{
			CompanyID:        companyID,
			Version:          1,
			Status:           models.QuestionnaireInProgress,
			SelectedServices: datatypes.NewJSONSlice(serviceKeys),
			StartedBy:        userID,
		}
		if err := s.questionnaireRepo.Create(questionnaire); err != nil {
			return nil, fmt.Errorf("failed to create questionnaire draft: %w", err)
		}
		questionnaireID = questionnaire.ID
	} else {
		questionnaire, err := s.questionnaireRepo.FindByID(questionnaireID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuestionnaireNotFound
			}
			return nil, fmt.Errorf("failed to find questionnaire: %w", err)
		}
		if questionnaire.CompanyID != companyID {
			return nil, ErrQuestionnaireMismatch
		}
		if err := s.questionnaireRepo.UpdateDraft(questionnaireID, serviceKeys); err != nil {
			return nil, fmt.Errorf("failed to update questionnaire draft: %w", err)
		}
	}

	return &draftEntities{
		companyID:       companyID,
		questionnaireID: questionnaireID,
		serviceKeys:     serviceKeys,
	}, nil
}

// SaveSection persists one section's field values and returns the resolved
// draft context for the next wizard step.
func (s *IntakeService) SaveSection(input SaveSectionInput, userID uint64) (*SaveSectionResult, error) {
	if err := forms.ValidatePartial(input.Values); err != nil {
		return nil, err
	}

	section, ok := forms.FindSection(input.SectionKey)
	if !ok {
		return nil, ErrUnknownSection
	}

	draft, err := s.ensureDraft(input.Values, userID, input.Context)
	if err != nil {
		return nil, err
	}

	storageKey := forms.StorageSectionKey(section.Key)

	// Only the section's declared fields are stored; declared fields that
	// were not supplied are stored null, everything else is omitted.
	payload := make(map[string]any, len(section.Fields))
	for _, field := range section.Fields {
		payload[field.Key] = input.Values[field.Key]
	}

	response := &models.QuestionnaireResponse{
		QuestionnaireID: draft.questionnaireID,
		SectionKey:      storageKey,
		Responses:       datatypes.JSONMap(payload),
		UpdatedBy:       userID,
	}
	if err := s.questionnaireRepo.UpsertResponse(response); err != nil {
		return nil, fmt.Errorf("failed to save section responses: %w", err)
	}

	entry := &models.AuditLog{
		CompanyID:  draft.companyID,
		Actor:      userID,
		Action:     models.AuditUpdateResponse,
		TargetType: "questionnaire",
		TargetID:   draft.questionnaireID,
		Details:    datatypes.JSONMap{"section": storageKey},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return &SaveSectionResult{
		CompanyID:       draft.companyID,
		QuestionnaireID: draft.questionnaireID,
	}, nil
}

// Submit validates the complete payload, writes every section's responses,
// marks the questionnaire submitted and appends the audit entry. The writes
// happen inside one transaction.
func (s *IntakeService) Submit(values map[string]any, userID uint64, ctx DraftContext) (*SaveSectionResult, error) {
	if err := forms.ValidateStrict(values); err != nil {
		return nil, err
	}

	draft, err := s.ensureDraft(values, userID, ctx)
	if err != nil {
		return nil, err
	}

	submittedAt := time.Now()

	sections := forms.Sections()
	responses := make([]models.QuestionnaireResponse, 0, len(sections))
	for _, section := range sections {
		payload := make(map[string]any, len(section.Fields))
		for _, field := range section.Fields {
			payload[field.Key] = values[field.Key]
		}
		responses = append(responses, models.QuestionnaireResponse{
			QuestionnaireID: draft.questionnaireID,
			SectionKey:      forms.StorageSectionKey(section.Key),
			Responses:       datatypes.JSONMap(payload),
			UpdatedBy:       userID,
		})
	}

	entry := &models.AuditLog{
		CompanyID:  draft.companyID,
		Actor:      userID,
		Action:     models.AuditSubmitQuestionnaire,
		TargetType: "questionnaire",
		TargetID:   draft.questionnaireID,
		Details: datatypes.JSONMap{
			"selected_services": draft.serviceKeys,
			"submitted_at":      submittedAt.Format(time.RFC3339),
		},
	}

	if err := s.questionnaireRepo.Finalize(draft.questionnaireID, responses, submittedAt, entry); err != nil {
		return nil, fmt.Errorf("failed to finalise questionnaire: %w", err)
	}

	return &SaveSectionResult{
		CompanyID:       draft.companyID,
		QuestionnaireID: draft.questionnaireID,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
