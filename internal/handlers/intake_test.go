package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/halewood/onboarding-api/internal/constants"
	"github.com/halewood/onboarding-api/internal/database"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// IntakeHandlerTestSuite defines the test suite for IntakeHandler
type IntakeHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *IntakeHandler
}

// SetupTest runs before each test
func (suite *IntakeHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Service{},
		&models.CompanyService{},
		&models.Questionnaire{},
		&models.QuestionnaireResponse{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)

	suite.Require().NoError(database.SeedServiceCatalog(suite.db))

	database.SetDB(suite.db)

	companyRepo := repository.NewCompanyRepository(suite.db)
	questionnaireRepo := repository.NewQuestionnaireRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)
	intakeService := services.NewIntakeService(companyRepo, questionnaireRepo, auditRepo)
	suite.handler = NewIntakeHandler(intakeService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *IntakeHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *IntakeHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

// Helper function to build an authenticated context with a JSON body
func (suite *IntakeHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *IntakeHandlerTestSuite) saveSectionBody(values map[string]any, companyID, questionnaireID uint64) []byte {
	payload := map[string]any{
		"values":           values,
		"company_id":       companyID,
		"questionnaire_id": questionnaireID,
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)
	return body
}

type draftIDs struct {
	CompanyID       uint64 `json:"company_id"`
	QuestionnaireID uint64 `json:"questionnaire_id"`
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_CreatesDraft() {
	user := suite.createTestUser("client@example.com")

	body := suite.saveSectionBody(map[string]any{
		"company_name": "Acme Corp",
		"website":      "https://acme.example.com",
		"industry":     "Retail",
	}, 0, 0)

	c, w := suite.createAuthContext("POST", "/api/intake/sections/company", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}

	suite.handler.SaveSection(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var ids draftIDs
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ids))
	assert.NotZero(suite.T(), ids.CompanyID)
	assert.NotZero(suite.T(), ids.QuestionnaireID)

	var company models.Company
	suite.Require().NoError(suite.db.First(&company, ids.CompanyID).Error)
	assert.Equal(suite.T(), "Acme Corp", company.Name)
	assert.Equal(suite.T(), "https://acme.example.com", company.Website)

	// The creator becomes client_admin of the new company.
	var member models.CompanyMember
	suite.Require().NoError(suite.db.
		Where("company_id = ? AND user_id = ?", ids.CompanyID, user.ID).
		First(&member).Error)
	assert.Equal(suite.T(), models.RoleClientAdmin, member.Role)

	var questionnaire models.Questionnaire
	suite.Require().NoError(suite.db.First(&questionnaire, ids.QuestionnaireID).Error)
	assert.Equal(suite.T(), models.QuestionnaireInProgress, questionnaire.Status)
	assert.Nil(suite.T(), questionnaire.SubmittedAt)

	// The company UI section is stored under the business key.
	var response models.QuestionnaireResponse
	suite.Require().NoError(suite.db.
		Where("questionnaire_id = ?", ids.QuestionnaireID).
		First(&response).Error)
	assert.Equal(suite.T(), "business", response.SectionKey)
	assert.Equal(suite.T(), "Acme Corp", response.Responses["company_name"])

	var auditCount int64
	suite.db.Model(&models.AuditLog{}).
		Where("company_id = ? AND action = ?", ids.CompanyID, models.AuditUpdateResponse).
		Count(&auditCount)
	assert.Equal(suite.T(), int64(1), auditCount)
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_ResaveOverwrites() {
	user := suite.createTestUser("client@example.com")

	body := suite.saveSectionBody(map[string]any{"company_name": "Acme Corp"}, 0, 0)
	c, w := suite.createAuthContext("POST", "/api/intake/sections/company", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}
	suite.handler.SaveSection(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var ids draftIDs
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ids))

	body = suite.saveSectionBody(map[string]any{
		"company_name": "Acme Corp",
		"industry":     "Logistics",
	}, ids.CompanyID, ids.QuestionnaireID)
	c, w = suite.createAuthContext("POST", "/api/intake/sections/company", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}
	suite.handler.SaveSection(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Still one row per section, with the latest values.
	var count int64
	suite.db.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ? AND section_key = ?", ids.QuestionnaireID, "business").
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)

	var response models.QuestionnaireResponse
	suite.Require().NoError(suite.db.
		Where("questionnaire_id = ? AND section_key = ?", ids.QuestionnaireID, "business").
		First(&response).Error)
	assert.Equal(suite.T(), "Logistics", response.Responses["industry"])
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_ServicesSelection() {
	user := suite.createTestUser("client@example.com")

	body := suite.saveSectionBody(map[string]any{"company_name": "Acme Corp"}, 0, 0)
	c, w := suite.createAuthContext("POST", "/api/intake/sections/company", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}
	suite.handler.SaveSection(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var ids draftIDs
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ids))

	body = suite.saveSectionBody(map[string]any{
		"selected_services": []string{"SEO", "PPC", "Not A Service"},
	}, ids.CompanyID, ids.QuestionnaireID)
	c, w = suite.createAuthContext("POST", "/api/intake/sections/services", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "services"}}
	suite.handler.SaveSection(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Unknown display names are dropped, known ones map to catalog keys.
	var questionnaire models.Questionnaire
	suite.Require().NoError(suite.db.First(&questionnaire, ids.QuestionnaireID).Error)
	assert.Equal(suite.T(), []string{"seo", "ppc"}, []string(questionnaire.SelectedServices))

	var linked int64
	suite.db.Model(&models.CompanyService{}).
		Where("company_id = ?", ids.CompanyID).
		Count(&linked)
	assert.Equal(suite.T(), int64(2), linked)
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_UnknownSection() {
	user := suite.createTestUser("client@example.com")

	body := suite.saveSectionBody(map[string]any{"company_name": "Acme Corp"}, 0, 0)
	c, w := suite.createAuthContext("POST", "/api/intake/sections/bogus", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "bogus"}}

	suite.handler.SaveSection(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_NonMemberForbidden() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")

	body := suite.saveSectionBody(map[string]any{"company_name": "Acme Corp"}, 0, 0)
	c, w := suite.createAuthContext("POST", "/api/intake/sections/company", body, owner.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}
	suite.handler.SaveSection(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var ids draftIDs
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ids))

	body = suite.saveSectionBody(map[string]any{"industry": "Retail"}, ids.CompanyID, ids.QuestionnaireID)
	c, w = suite.createAuthContext("POST", "/api/intake/sections/company", body, outsider.ID)
	c.Params = gin.Params{{Key: "key", Value: "company"}}
	suite.handler.SaveSection(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *IntakeHandlerTestSuite) TestSaveSection_FirstSaveWithoutNameRejected() {
	user := suite.createTestUser("client@example.com")

	body := suite.saveSectionBody(map[string]any{"seo_goals": "Rank for everything"}, 0, 0)
	c, w := suite.createAuthContext("POST", "/api/intake/sections/seo", body, user.ID)
	c.Params = gin.Params{{Key: "key", Value: "seo"}}

	suite.handler.SaveSection(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *IntakeHandlerTestSuite) TestSubmit_FinalizesQuestionnaire() {
	user := suite.createTestUser("client@example.com")

	values := map[string]any{
		"company_name":      "Acme Corp",
		"website":           "https://acme.example.com",
		"selected_services": []string{"SEO", "Email Marketing"},
		"seo_goals":         "Grow organic traffic",
	}
	payload := map[string]any{"values": values}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/intake/submit", body, user.ID)

	suite.handler.Submit(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var ids draftIDs
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ids))

	var questionnaire models.Questionnaire
	suite.Require().NoError(suite.db.First(&questionnaire, ids.QuestionnaireID).Error)
	assert.Equal(suite.T(), models.QuestionnaireSubmitted, questionnaire.Status)
	assert.NotNil(suite.T(), questionnaire.SubmittedAt)

	// Every declared section gets a row on submit.
	var rows int64
	suite.db.Model(&models.QuestionnaireResponse{}).
		Where("questionnaire_id = ?", ids.QuestionnaireID).
		Count(&rows)
	assert.Equal(suite.T(), int64(8), rows)

	var auditCount int64
	suite.db.Model(&models.AuditLog{}).
		Where("company_id = ? AND action = ?", ids.CompanyID, models.AuditSubmitQuestionnaire).
		Count(&auditCount)
	assert.Equal(suite.T(), int64(1), auditCount)
}

func (suite *IntakeHandlerTestSuite) TestSubmit_MissingRequiredField() {
	user := suite.createTestUser("client@example.com")

	payload := map[string]any{
		"values": map[string]any{
			"company_name": "Acme Corp",
			// selected_services is required on submit
		},
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/intake/submit", body, user.ID)

	suite.handler.Submit(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// Nothing is persisted on a failed submit.
	var count int64
	suite.db.Model(&models.Company{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func TestIntakeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IntakeHandlerTestSuite))
}
