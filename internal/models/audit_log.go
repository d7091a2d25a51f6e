package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions written by the mutating operations.
const (
	AuditUpdateResponse       = "update_response"
	AuditSubmitQuestionnaire  = "submit_questionnaire"
	AuditInviteSent           = "invite_sent"
	AuditInviteAccepted       = "invite_accepted"
	AuditAssetUploadRequested = "asset_upload_requested"
	AuditSecretCreated        = "secret_created"
	AuditAccessRequest        = "access_request"
)

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID         uint64            `gorm:"primarykey" json:"id"`
	CompanyID  uint64            `gorm:"not null;index" json:"company_id"`
	Actor      uint64            `gorm:"not null" json:"actor"`
	Action     string            `gorm:"type:varchar(100);not null" json:"action"`
	TargetType string            `gorm:"type:varchar(50)" json:"target_type"`
	TargetID   uint64            `json:"target_id"`
	Details    datatypes.JSONMap `json:"details"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
