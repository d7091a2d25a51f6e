package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/utils"
)

var (
	ErrInviteNotAllowed   = errors.New("you do not have permission to invite additional users")
	ErrInvalidInviteRole  = errors.New("select a valid role")
	ErrInvalidInviteEmail = errors.New("enter a valid email address")
	ErrInviteNotFound     = errors.New("this invite link is invalid or has expired")
)

// InviteEmailMismatchError names the email the invite was issued for.
type InviteEmailMismatchError struct {
	Expected string
}

func (e *InviteEmailMismatchError) Error() string {
	return fmt.Sprintf("this invite was sent to %s; please sign in with that email address", e.Expected)
}

// InviteService issues and consumes company invites.
type InviteService struct {
	inviteRepo  repository.InviteRepository
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository

	// siteURL is the public base for shareable invite links.
	siteURL string
}

// NewInviteService creates a new InviteService.
func NewInviteService(inviteRepo repository.InviteRepository, companyRepo repository.CompanyRepository, auditRepo repository.AuditRepository, siteURL string) *InviteService {
	return &InviteService{
		inviteRepo:  inviteRepo,
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		siteURL:     siteURL,
	}
}

// IssueInput represents a new invite request.
type IssueInput struct {
	CompanyID uint64
	Email     string
	Role      models.MemberRole
	ActorID   uint64
	ActorRole models.MemberRole
}

// IssueResult carries the shareable link for a created invite.
type IssueResult struct {
	Invite *models.Invite
	Link   string
}

// invitableRoles are the roles an invite may carry. Agency roles are granted
// internally, never through invite links.
func invitableRole(role models.MemberRole) bool {
	switch role {
	case models.RoleClientAdmin, models.RoleClientMember, models.RoleViewer:
		return true
	default:
		return false
	}
}

// Issue creates a single-use invite token and the audit entry for it.
func (s *InviteService) Issue(input IssueInput) (*IssueResult, error) {
	if !input.ActorRole.CanInvite() {
		return nil, ErrInviteNotAllowed
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInviteEmail
	}

	role := input.Role
	if role == "" {
		role = models.RoleClientMember
	}
	if !invitableRole(role) {
		return nil, ErrInvalidInviteRole
	}

	invite := &models.Invite{
		CompanyID: input.CompanyID,
		Email:     email,
		Role:      role,
		Token:     utils.GenerateInviteToken(),
		Accepted:  false,
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	entry := &models.AuditLog{
		CompanyID:  input.CompanyID,
		Actor:      input.ActorID,
		Action:     models.AuditInviteSent,
		TargetType: "invite",
		TargetID:   invite.ID,
		Details: datatypes.JSONMap{
			"email": email,
			"role":  string(role),
		},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return &IssueResult{
		Invite: invite,
		Link:   fmt.Sprintf("%s/sign-in?invite=%s", s.siteURL, invite.Token),
	}, nil
}

// InviteMetadata is what the sign-in page shows before acceptance.
type InviteMetadata struct {
	Email       string
	Role        models.MemberRole
	CompanyID   uint64
	CompanyName string
	Accepted    bool
}

// GetByToken returns invite metadata for the sign-in flow.
func (s *InviteService) GetByToken(token string) (*InviteMetadata, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	return &InviteMetadata{
		Email:       invite.Email,
		Role:        invite.Role,
		CompanyID:   invite.CompanyID,
		CompanyName: invite.Company.Name,
		Accepted:    invite.Accepted,
	}, nil
}

// Accept consumes an invite token for a signed-in user. Re-presenting an
// already-accepted token returns the existing company association unchanged.
func (s *InviteService) Accept(token string, userID uint64, userEmail string) (uint64, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInviteNotFound
		}
		return 0, fmt.Errorf("failed to validate invite token: %w", err)
	}

	if invite.Accepted {
		return invite.CompanyID, nil
	}

	if !strings.EqualFold(invite.Email, userEmail) {
		return 0, &InviteEmailMismatchError{Expected: invite.Email}
	}

	member := &models.CompanyMember{
		CompanyID: invite.CompanyID,
		UserID:    userID,
		Role:      invite.Role,
		CreatedAt: time.Now(),
	}
	if err := s.companyRepo.UpsertMember(member); err != nil {
		return 0, fmt.Errorf("failed to attach account to company: %w", err)
	}

	if err := s.inviteRepo.MarkAccepted(invite.ID); err != nil {
		return 0, fmt.Errorf("failed to mark invite accepted: %w", err)
	}

	entry := &models.AuditLog{
		CompanyID:  invite.CompanyID,
		Actor:      userID,
		Action:     models.AuditInviteAccepted,
		TargetType: "invite",
		TargetID:   invite.ID,
		Details:    datatypes.JSONMap{"email": invite.Email},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return 0, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return invite.CompanyID, nil
}
