package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/halewood/onboarding-api/internal/dto"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/services"
)

// SecretHandler coordinates the encrypted credentials endpoints.
type SecretHandler struct {
	secretService *services.SecretService
}

// NewSecretHandler creates a new SecretHandler.
func NewSecretHandler(secretService *services.SecretService) *SecretHandler {
	return &SecretHandler{
		secretService: secretService,
	}
}

// Create stores an encrypted credential for the company in the route.
func (h *SecretHandler) Create(c *gin.Context) {
	type CreateSecretRequest struct {
		Label       string `json:"label" binding:"required"`
		SecretType  string `json:"secret_type" binding:"required"`
		SecretValue string `json:"secret_value" binding:"required"`
	}

	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	member, ok := middleware.GetCompanyMember(c)
	if !ok {
		apierrors.InternalError(c, "Membership not loaded")
		return
	}

	var req CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	secret, err := h.secretService.Create(services.CreateSecretInput{
		CompanyID:   company.ID,
		Label:       req.Label,
		SecretType:  req.SecretType,
		SecretValue: req.SecretValue,
		ActorID:     member.UserID,
		ActorRole:   member.Role,
	})
	if err != nil {
		respondSecretError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSecretMetadataDTO(*secret))
}

// List returns the company's secret metadata. Values stay sealed.
func (h *SecretHandler) List(c *gin.Context) {
	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	secrets, err := h.secretService.List(company.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list secrets")
		return
	}

	secretDTOs := make([]dto.SecretMetadataDTO, len(secrets))
	for i, secret := range secrets {
		secretDTOs[i] = dto.ToSecretMetadataDTO(secret)
	}

	c.JSON(http.StatusOK, gin.H{"secrets": secretDTOs})
}

// Reveal decrypts one credential for an admin member of its company.
func (h *SecretHandler) Reveal(c *gin.Context) {
	secretID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid secret ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	revealed, err := h.secretService.Reveal(secretID, userID)
	if err != nil {
		respondSecretError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label":        revealed.Label,
		"secret_type":  revealed.SecretType,
		"secret_value": revealed.SecretValue,
	})
}

func respondSecretError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSecretNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSecretAccessDenied),
		errors.Is(err, services.ErrSecretAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSecretInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrVaultUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
