package models

import "time"

// Service is one row of the static service catalog seeded at migration time.
type Service struct {
	ID    uint64 `gorm:"primarykey" json:"id"`
	Key   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"key"`
	Label string `gorm:"type:varchar(255);not null" json:"label"`
}

type CompanyServiceStatus string

const (
	ServiceStatusSelected CompanyServiceStatus = "selected"
)

// CompanyService associates a catalog service with a company.
type CompanyService struct {
	CompanyID uint64               `gorm:"primarykey" json:"company_id"`
	ServiceID uint64               `gorm:"primarykey" json:"service_id"`
	Status    CompanyServiceStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}
