package repository

import (
	"time"

	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuestionnaireRepository is a GORM implementation of QuestionnaireRepository
type GormQuestionnaireRepository struct {
	db *gorm.DB
}

// NewQuestionnaireRepository creates a new QuestionnaireRepository
func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &GormQuestionnaireRepository{db: db}
}

// Create creates a new questionnaire draft
func (r *GormQuestionnaireRepository) Create(questionnaire *models.Questionnaire) error {
	return r.db.Create(questionnaire).Error
}

// FindByID finds a questionnaire by ID
func (r *GormQuestionnaireRepository) FindByID(id uint64) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	if err := r.db.First(&questionnaire, id).Error; err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

// FindLatestByCompany finds the most recently created questionnaire for a company
func (r *GormQuestionnaireRepository) FindLatestByCompany(companyID uint64) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	if err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		First(&questionnaire).Error; err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

// UpdateDraft refreshes a draft's selected services and keeps it in progress
func (r *GormQuestionnaireRepository) UpdateDraft(id uint64, selectedServices []string) error {
	return r.db.Model(&models.Questionnaire{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"selected_services": datatypes.NewJSONSlice(selectedServices),
			"status":            models.QuestionnaireInProgress,
			"updated_at":        time.Now(),
		}).Error
}

// UpsertResponse writes one (questionnaire, section) response row
func (r *GormQuestionnaireRepository) UpsertResponse(response *models.QuestionnaireResponse) error {
	return upsertResponse(r.db, response)
}

func upsertResponse(tx *gorm.DB, response *models.QuestionnaireResponse) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "questionnaire_id"}, {Name: "section_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"responses", "updated_by", "updated_at"}),
	}).Create(response).Error
}

// ListResponses lists all response rows of a questionnaire
func (r *GormQuestionnaireRepository) ListResponses(questionnaireID uint64) ([]models.QuestionnaireResponse, error) {
	var responses []models.QuestionnaireResponse
	if err := r.db.Where("questionnaire_id = ?", questionnaireID).
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

// Finalize writes every section's response row, marks the questionnaire
// submitted and appends the audit entry, all within one transaction so a
// later write failure never leaves a half-submitted questionnaire.
func (r *GormQuestionnaireRepository) Finalize(questionnaireID uint64, responses []models.QuestionnaireResponse, submittedAt time.Time, audit *models.AuditLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range responses {
			if err := upsertResponse(tx, &responses[i]); err != nil {
				return err
			}
		}

		err := tx.Model(&models.Questionnaire{}).
			Where("id = ?", questionnaireID).
			Updates(map[string]any{
				"status":       models.QuestionnaireSubmitted,
				"submitted_at": submittedAt,
				"updated_at":   submittedAt,
			}).Error
		if err != nil {
			return err
		}

		return tx.Create(audit).Error
	})
}
