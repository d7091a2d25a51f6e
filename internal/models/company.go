package models

import (
	"time"
)

type Company struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Website      string    `gorm:"type:varchar(255)" json:"website"`
	Industry     string    `gorm:"type:varchar(255)" json:"industry"`
	BusinessType string    `gorm:"type:varchar(100)" json:"business_type"`
	Country      string    `gorm:"type:varchar(100)" json:"country"`
	Timezone     string    `gorm:"type:varchar(100)" json:"timezone"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Members        []CompanyMember  `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Questionnaires []Questionnaire  `gorm:"foreignKey:CompanyID" json:"questionnaires,omitempty"`
	Services       []CompanyService `gorm:"foreignKey:CompanyID" json:"services,omitempty"`
	Assets         []Asset          `gorm:"foreignKey:CompanyID" json:"assets,omitempty"`
	Secrets        []Secret         `gorm:"foreignKey:CompanyID" json:"secrets,omitempty"`
}
