package models

import "time"

// Asset is the metadata row for one object in external storage. The row is
// created when the upload URL is issued, before any bytes move.
type Asset struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	CompanyID uint64    `gorm:"not null;index" json:"company_id"`
	Bucket    string    `gorm:"type:varchar(100);not null" json:"bucket"`
	Path      string    `gorm:"type:varchar(512);not null" json:"path"`
	Label     string    `gorm:"type:varchar(255)" json:"label"`
	Kind      string    `gorm:"type:varchar(100)" json:"kind"`
	CreatedBy uint64    `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
