package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halewood/onboarding-api/internal/dto"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/services"
)

// InviteHandler coordinates invite issuing and acceptance.
type InviteHandler struct {
	inviteService *services.InviteService
	authService   *services.AuthService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InviteService, authService *services.AuthService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		authService:   authService,
	}
}

// Create issues an invite for the company in the route. Requires an admin
// role; the membership itself is checked by middleware.
func (h *InviteHandler) Create(c *gin.Context) {
	type CreateInviteRequest struct {
		Email string            `json:"email" binding:"required,email"`
		Role  models.MemberRole `json:"role"`
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

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.inviteService.Issue(services.IssueInput{
		CompanyID: company.ID,
		Email:     req.Email,
		Role:      req.Role,
		ActorID:   member.UserID,
		ActorRole: member.Role,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email": result.Invite.Email,
		"role":  result.Invite.Role,
		"link":  result.Link,
	})
}

// Get returns invite metadata for the sign-in page. No authentication; the
// token itself is the credential.
func (h *InviteHandler) Get(c *gin.Context) {
	meta, err := h.inviteService.GetByToken(c.Param("token"))
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteMetadataDTO(meta))
}

// Accept consumes an invite token for the signed-in user.
func (h *InviteHandler) Accept(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	companyID, err := h.inviteService.Accept(c.Param("token"), userID, user.Email)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company_id": companyID,
	})
}

func respondInviteError(c *gin.Context, err error) {
	var mismatch *services.InviteEmailMismatchError
	if errors.As(err, &mismatch) {
		apierrors.Forbidden(c, err.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrInviteNotAllowed):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteRole),
		errors.Is(err, services.ErrInvalidInviteEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInviteNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
