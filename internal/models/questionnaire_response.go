package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionnaireResponse holds the saved field values for one section of a
// questionnaire. One row per (questionnaire_id, section_key).
type QuestionnaireResponse struct {
	ID              uint64            `gorm:"primarykey" json:"id"`
	QuestionnaireID uint64            `gorm:"not null;uniqueIndex:ux_questionnaire_section,priority:1" json:"questionnaire_id"`
	SectionKey      string            `gorm:"type:varchar(50);not null;uniqueIndex:ux_questionnaire_section,priority:2" json:"section_key"`
	Responses       datatypes.JSONMap `json:"responses"`
	UpdatedBy       uint64            `gorm:"not null" json:"updated_by"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Relations
	Questionnaire Questionnaire `gorm:"foreignKey:QuestionnaireID" json:"questionnaire,omitempty"`
}
