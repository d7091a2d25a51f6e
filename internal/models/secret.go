package models

import "time"

// Secret stores an encrypted credential. Only the sealed ciphertext is
// persisted; the plaintext exists solely inside an authorized reveal response.
type Secret struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	CompanyID  uint64    `gorm:"not null;index" json:"company_id"`
	Label      string    `gorm:"type:varchar(255);not null" json:"label"`
	SecretType string    `gorm:"type:varchar(100);not null" json:"secret_type"`
	Ciphertext []byte    `gorm:"not null" json:"-"`
	Nonce      []byte    `gorm:"not null" json:"-"`
	Salt       []byte    `gorm:"not null" json:"-"`
	CreatedBy  uint64    `gorm:"not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
