package database

import (
	"fmt"

	"github.com/halewood/onboarding-api/internal/forms"
	"github.com/halewood/onboarding-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedServiceCatalog inserts the static service catalog. Existing rows are
// left untouched so re-running migrations is safe.
func SeedServiceCatalog(db *gorm.DB) error {
	for _, entry := range forms.ServiceCatalog() {
		service := models.Service{
			Key:   entry.Key,
			Label: entry.Label,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&service).Error
		if err != nil {
			return fmt.Errorf("failed to seed service %q: %w", entry.Key, err)
		}
	}
	return nil
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"company_members", "idx_company_members_company_id", "company_id"},
		{"company_members", "idx_company_members_user_id", "user_id"},

		{"questionnaires", "idx_questionnaires_company_id", "company_id"},
		{"questionnaire_responses", "idx_responses_questionnaire_id", "questionnaire_id"},

		{"audit_logs", "idx_audit_logs_company_created", "company_id, created_at"},

		{"invites", "idx_invites_token", "token"},
		{"assets", "idx_assets_company_id", "company_id"},
		{"secrets", "idx_secrets_company_id", "company_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
