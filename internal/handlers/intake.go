package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/forms"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/services"
)

// IntakeHandler coordinates the questionnaire wizard endpoints.
type IntakeHandler struct {
	intakeService *services.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(intakeService *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{
		intakeService: intakeService,
	}
}

// GetSections returns the questionnaire section declarations so clients can
// render the wizard without hardcoding the form.
func (h *IntakeHandler) GetSections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sections": forms.Sections(),
		"services": forms.ServiceCatalog(),
	})
}

// SaveSection persists one wizard step. The first save with no company ID
// creates the company and questionnaire draft; the response returns both IDs
// so the client can thread them through subsequent steps.
func (h *IntakeHandler) SaveSection(c *gin.Context) {
	type SaveSectionRequest struct {
		Values          map[string]any `json:"values" binding:"required"`
		CompanyID       uint64         `json:"company_id"`
		QuestionnaireID uint64         `json:"questionnaire_id"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.intakeService.SaveSection(services.SaveSectionInput{
		SectionKey: c.Param("key"),
		Values:     req.Values,
		Context: services.DraftContext{
			CompanyID:       req.CompanyID,
			QuestionnaireID: req.QuestionnaireID,
		},
	}, userID)
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company_id":       result.CompanyID,
		"questionnaire_id": result.QuestionnaireID,
	})
}

// Submit validates the full payload and finalizes the questionnaire.
func (h *IntakeHandler) Submit(c *gin.Context) {
	type SubmitRequest struct {
		Values          map[string]any `json:"values" binding:"required"`
		CompanyID       uint64         `json:"company_id"`
		QuestionnaireID uint64         `json:"questionnaire_id"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.intakeService.Submit(req.Values, userID, services.DraftContext{
		CompanyID:       req.CompanyID,
		QuestionnaireID: req.QuestionnaireID,
	})
	if err != nil {
		respondIntakeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company_id":       result.CompanyID,
		"questionnaire_id": result.QuestionnaireID,
		"status":           "submitted",
	})
}

func respondIntakeError(c *gin.Context, err error) {
	var validationErr *forms.ValidationError
	if errors.As(err, &validationErr) {
		apiErr := apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, validationErr.Message)
		apiErr.Details = gin.H{"field": validationErr.Field}
		apierrors.RespondWithError(c, http.StatusBadRequest, apiErr)
		return
	}

	switch {
	case errors.Is(err, services.ErrCompanyNameRequired),
		errors.Is(err, services.ErrUnknownSection),
		errors.Is(err, services.ErrQuestionnaireMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrQuestionnaireNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCompanyMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
