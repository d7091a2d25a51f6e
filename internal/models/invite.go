package models

import "time"

// Invite is a single-use token binding an email and role to a company until
// a signed-in user with that email accepts it.
type Invite struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	CompanyID uint64     `gorm:"not null;index" json:"company_id"`
	Email     string     `gorm:"type:varchar(255);not null" json:"email"`
	Role      MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Accepted  bool       `gorm:"not null;default:false" json:"accepted"`
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
