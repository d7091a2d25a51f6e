package dto

import (
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/services"
)

// InviteMetadataDTO is what the sign-in page sees for a pending invite
type InviteMetadataDTO struct {
	Email       string            `json:"email"`
	Role        models.MemberRole `json:"role"`
	CompanyID   uint64            `json:"company_id"`
	CompanyName string            `json:"company_name"`
	Accepted    bool              `json:"accepted"`
}

// ToInviteMetadataDTO converts invite metadata
func ToInviteMetadataDTO(meta *services.InviteMetadata) InviteMetadataDTO {
	return InviteMetadataDTO{
		Email:       meta.Email,
		Role:        meta.Role,
		CompanyID:   meta.CompanyID,
		CompanyName: meta.CompanyName,
		Accepted:    meta.Accepted,
	}
}
