package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halewood/onboarding-api/internal/dto"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/export"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/services"
	"github.com/halewood/onboarding-api/internal/utils"
)

// CompanyHandler coordinates the company read views, activity feed, CSV
// export and access requests.
type CompanyHandler struct {
	companyService *services.CompanyService
	summaryService *services.SummaryService
}

// NewCompanyHandler creates a new CompanyHandler. summaryService may be nil
// when no OpenAI key is configured.
func NewCompanyHandler(companyService *services.CompanyService, summaryService *services.SummaryService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		summaryService: summaryService,
	}
}

// List returns the companies the caller belongs to.
func (h *CompanyHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summaries, err := h.companyService.ListForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list companies")
		return
	}

	companyDTOs := make([]dto.CompanySummaryDTO, len(summaries))
	for i, summary := range summaries {
		companyDTOs[i] = dto.ToCompanySummaryDTO(summary)
	}

	c.JSON(http.StatusOK, gin.H{"companies": companyDTOs})
}

// Get returns the full company view. Membership is checked by middleware.
func (h *CompanyHandler) Get(c *gin.Context) {
	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	detail, err := h.companyService.Detail(company.ID)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDetailDTO(detail))
}

// Members lists the company's memberships.
func (h *CompanyHandler) Members(c *gin.Context) {
	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	members, err := h.companyService.Members(company.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list members")
		return
	}

	memberDTOs := make([]dto.MemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// Activity returns a page of the company's audit trail, most recent first.
func (h *CompanyHandler) Activity(c *gin.Context) {
	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.companyService.ActivityFeed(company.ID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to load activity feed")
		return
	}

	entryDTOs := make([]dto.AuditLogDTO, len(entries))
	for i, entry := range entries {
		entryDTOs[i] = dto.ToAuditLogDTO(entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": entryDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ExportCSV streams the latest questionnaire's responses as a CSV download.
func (h *CompanyHandler) ExportCSV(c *gin.Context) {
	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	responses, err := h.companyService.LatestResponses(company.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load questionnaire responses")
		return
	}

	body := export.CSV(export.Flatten(responses))
	filename := fmt.Sprintf("%s-questionnaire-%s.csv", company.Name, time.Now().Format("2006-01-02"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// RequestAccess logs a request for access to one of the client's platforms.
func (h *CompanyHandler) RequestAccess(c *gin.Context) {
	type AccessRequest struct {
		AccessType string `json:"access_type" binding:"required"`
		Notes      string `json:"notes"`
	}

	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.companyService.RequestAccess(company.ID, userID, req.AccessType, req.Notes); err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Access request recorded",
	})
}

// Summarize generates an onboarding brief from the latest questionnaire.
func (h *CompanyHandler) Summarize(c *gin.Context) {
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

	if !member.Role.CanViewBrief() {
		apierrors.Forbidden(c, "Only admins and agency staff can generate briefs")
		return
	}

	if h.summaryService == nil {
		apierrors.ServiceUnavailable(c, "Summaries are not configured")
		return
	}

	responses, err := h.companyService.LatestResponses(company.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load questionnaire responses")
		return
	}
	if len(responses) == 0 {
		apierrors.NotFound(c, "No questionnaire responses to summarize")
		return
	}

	brief, err := h.summaryService.GenerateBrief(c.Request.Context(), company.Name, responses)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to generate summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": brief})
}

func respondCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCompanyNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAccessTypeRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
