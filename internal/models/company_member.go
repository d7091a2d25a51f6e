package models

import "time"

type MemberRole string

const (
	RoleAgencyAdmin  MemberRole = "agency_admin"
	RoleAgencyMember MemberRole = "agency_member"
	RoleClientAdmin  MemberRole = "client_admin"
	RoleClientMember MemberRole = "client_member"
	RoleViewer       MemberRole = "viewer"
)

// IsValid reports whether the role is one of the known member roles.
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleAgencyAdmin, RoleAgencyMember, RoleClientAdmin, RoleClientMember, RoleViewer:
		return true
	default:
		return false
	}
}

// CanInvite reports whether the role may issue invites for its company.
func (r MemberRole) CanInvite() bool {
	switch r {
	case RoleAgencyAdmin, RoleAgencyMember, RoleClientAdmin:
		return true
	case RoleClientMember, RoleViewer:
		return false
	default:
		return false
	}
}

// CanManageSecrets reports whether the role may store or reveal credentials.
func (r MemberRole) CanManageSecrets() bool {
	switch r {
	case RoleAgencyAdmin, RoleClientAdmin:
		return true
	case RoleAgencyMember, RoleClientMember, RoleViewer:
		return false
	default:
		return false
	}
}

// CanViewBrief reports whether the role may generate the onboarding brief.
func (r MemberRole) CanViewBrief() bool {
	switch r {
	case RoleAgencyAdmin, RoleAgencyMember, RoleClientAdmin:
		return true
	case RoleClientMember, RoleViewer:
		return false
	default:
		return false
	}
}

type CompanyMember struct {
	CompanyID uint64     `gorm:"primarykey" json:"company_id"`
	UserID    uint64     `gorm:"primarykey" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time  `json:"created_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
