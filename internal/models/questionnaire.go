package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionnaireStatus string

const (
	QuestionnaireInProgress QuestionnaireStatus = "in_progress"
	QuestionnaireSubmitted  QuestionnaireStatus = "submitted"
	QuestionnaireReviewed   QuestionnaireStatus = "reviewed"
)

type Questionnaire struct {
	ID               uint64                      `gorm:"primarykey" json:"id"`
	CompanyID        uint64                      `gorm:"not null;index" json:"company_id"`
	Version          int                         `gorm:"not null;default:1" json:"version"`
	Status           QuestionnaireStatus         `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`
	SelectedServices datatypes.JSONSlice[string] `json:"selected_services"`
	StartedBy        uint64                      `gorm:"not null" json:"started_by"`
	SubmittedAt      *time.Time                  `json:"submitted_at"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`

	// Relations
	Company   Company                 `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Responses []QuestionnaireResponse `gorm:"foreignKey:QuestionnaireID" json:"responses,omitempty"`
}
