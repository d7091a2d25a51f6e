package services

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/vault"
)

var (
	ErrSecretNotFound      = errors.New("secret not found")
	ErrSecretAccessDenied  = errors.New("you do not have access to this secret")
	ErrSecretAdminRequired = errors.New("only admins can manage stored secrets")
	ErrSecretInvalidInput  = errors.New("label, type and value are required")
	ErrVaultUnavailable    = errors.New("the secret vault is not configured")
)

// SecretService stores and reveals encrypted credentials. Plaintext exists
// only in the request that stores it and the response that reveals it.
type SecretService struct {
	secretRepo  repository.SecretRepository
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
	vault       *vault.Vault
}

// NewSecretService creates a new SecretService.
func NewSecretService(secretRepo repository.SecretRepository, companyRepo repository.CompanyRepository, auditRepo repository.AuditRepository, v *vault.Vault) *SecretService {
	return &SecretService{
		secretRepo:  secretRepo,
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		vault:       v,
	}
}

// CreateSecretInput describes one credential to store.
type CreateSecretInput struct {
	CompanyID   uint64
	Label       string
	SecretType  string
	SecretValue string
	ActorID     uint64
	ActorRole   models.MemberRole
}

// Create seals and stores a credential. Admin roles only.
func (s *SecretService) Create(input CreateSecretInput) (*models.Secret, error) {
	if !input.ActorRole.CanManageSecrets() {
		return nil, ErrSecretAdminRequired
	}
	if input.Label == "" || input.SecretType == "" || input.SecretValue == "" {
		return nil, ErrSecretInvalidInput
	}
	if !s.vault.Enabled() {
		return nil, ErrVaultUnavailable
	}

	ciphertext, nonce, salt, err := s.vault.Seal(input.SecretValue)
	if err != nil {
		return nil, fmt.Errorf("failed to seal secret: %w", err)
	}

	secret := &models.Secret{
		CompanyID:  input.CompanyID,
		Label:      input.Label,
		SecretType: input.SecretType,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Salt:       salt,
		CreatedBy:  input.ActorID,
	}
	if err := s.secretRepo.Create(secret); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}

	// The audit entry records that a secret was stored, never its value.
	entry := &models.AuditLog{
		CompanyID:  input.CompanyID,
		Actor:      input.ActorID,
		Action:     models.AuditSecretCreated,
		TargetType: "secret",
		TargetID:   secret.ID,
		Details: datatypes.JSONMap{
			"label":       input.Label,
			"secret_type": input.SecretType,
		},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return secret, nil
}

// RevealedSecret is the decrypted credential returned by Reveal.
type RevealedSecret struct {
	Label       string
	SecretType  string
	SecretValue string
}

// Reveal decrypts a stored credential for an admin member of its company.
// The membership and role are re-checked here because secrets are addressed
// by their own ID, not through a company-scoped route.
func (s *SecretService) Reveal(secretID, userID uint64) (*RevealedSecret, error) {
	secret, err := s.secretRepo.FindByID(secretID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("failed to find secret: %w", err)
	}

	member, err := s.companyRepo.FindMember(secret.CompanyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecretAccessDenied
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if !member.Role.CanManageSecrets() {
		return nil, ErrSecretAdminRequired
	}

	value, err := s.vault.Open(secret.Ciphertext, secret.Nonce, secret.Salt)
	if err != nil {
		if errors.Is(err, vault.ErrNoPassphrase) {
			return nil, ErrVaultUnavailable
		}
		return nil, fmt.Errorf("failed to decrypt secret: %w", err)
	}

	return &RevealedSecret{
		Label:       secret.Label,
		SecretType:  secret.SecretType,
		SecretValue: value,
	}, nil
}

// List returns a company's secret metadata. Values stay sealed.
func (s *SecretService) List(companyID uint64) ([]models.Secret, error) {
	secrets, err := s.secretRepo.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return secrets, nil
}
