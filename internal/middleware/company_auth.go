package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/halewood/onboarding-api/internal/database"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/models"
)

// Context keys set by RequireCompanyAccess.
const (
	ContextKeyCompany       = "company"
	ContextKeyCompanyMember = "company_member"
)

// RequireCompanyAccess checks that the caller is a member of the company in
// the :id route parameter. The membership is fetched fresh on every request;
// nothing is cached across calls. A company that exists but does not include
// the caller yields 403, a company that does not exist yields 404.
func RequireCompanyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyIDStr := c.Param("id")
		companyID, err := strconv.ParseUint(companyIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid company ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var company models.Company
		if err := database.GetDB().First(&company, companyID).Error; err != nil {
			apierrors.NotFound(c, "Company not found")
			c.Abort()
			return
		}

		var member models.CompanyMember
		err = database.GetDB().
			Where("company_id = ? AND user_id = ?", companyID, userID).
			First(&member).Error
		if err != nil {
			apierrors.Forbidden(c, "You do not have access to this company")
			c.Abort()
			return
		}

		c.Set(ContextKeyCompany, company)
		c.Set(ContextKeyCompanyMember, member)
		c.Next()
	}
}

// GetCompany retrieves the company loaded by RequireCompanyAccess.
func GetCompany(c *gin.Context) (models.Company, bool) {
	value, exists := c.Get(ContextKeyCompany)
	if !exists {
		return models.Company{}, false
	}
	company, ok := value.(models.Company)
	return company, ok
}

// GetCompanyMember retrieves the caller's membership loaded by RequireCompanyAccess.
func GetCompanyMember(c *gin.Context) (models.CompanyMember, bool) {
	value, exists := c.Get(ContextKeyCompanyMember)
	if !exists {
		return models.CompanyMember{}, false
	}
	member, ok := value.(models.CompanyMember)
	return member, ok
}
