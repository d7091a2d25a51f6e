package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"
	"github.com/halewood/onboarding-api/internal/constants"
	"github.com/halewood/onboarding-api/internal/database"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CompanyHandlerTestSuite defines the test suite for CompanyHandler
type CompanyHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CompanyHandler
}

// SetupTest runs before each test
func (suite *CompanyHandlerTestSuite) SetupTest() {
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
		&models.Asset{},
		&models.Secret{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)

	suite.Require().NoError(database.SeedServiceCatalog(suite.db))

	database.SetDB(suite.db)

	companyRepo := repository.NewCompanyRepository(suite.db)
	questionnaireRepo := repository.NewQuestionnaireRepository(suite.db)
	assetRepo := repository.NewAssetRepository(suite.db)
	secretRepo := repository.NewSecretRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)

	companyService := services.NewCompanyService(companyRepo, questionnaireRepo, assetRepo, secretRepo, auditRepo)
	suite.handler = NewCompanyHandler(companyService, nil)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CompanyHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CompanyHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "hashedpassword"}
	suite.db.Create(user)
	return user
}

func (suite *CompanyHandlerTestSuite) createTestCompany(name string) *models.Company {
	company := &models.Company{Name: name}
	suite.db.Create(company)
	return company
}

func (suite *CompanyHandlerTestSuite) createTestMember(companyID, userID uint64, role models.MemberRole) *models.CompanyMember {
	member := &models.CompanyMember{CompanyID: companyID, UserID: userID, Role: role}
	suite.db.Create(member)
	return member
}

func (suite *CompanyHandlerTestSuite) createSubmittedQuestionnaire(companyID, userID uint64, serviceKeys []string) *models.Questionnaire {
	submittedAt := time.Now()
	questionnaire := &models.Questionnaire{
		CompanyID:        companyID,
		Version:          1,
		Status:           models.QuestionnaireSubmitted,
		SelectedServices: datatypes.NewJSONSlice(serviceKeys),
		StartedBy:        userID,
		SubmittedAt:      &submittedAt,
	}
	suite.db.Create(questionnaire)
	return questionnaire
}

func (suite *CompanyHandlerTestSuite) createCompanyContext(method, url string, body []byte, userID uint64, company models.Company, member models.CompanyMember) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyCompany, company)
	c.Set(middleware.ContextKeyCompanyMember, member)

	return c, w
}

func (suite *CompanyHandlerTestSuite) TestList() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)
	suite.createSubmittedQuestionnaire(company.ID, user.ID, []string{"seo", "ppc"})

	// A company the user does not belong to stays out of the list.
	suite.createTestCompany("Other Corp")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/companies", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	suite.handler.List(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Companies []map[string]any `json:"companies"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Companies, 1)

	row := response.Companies[0]
	assert.Equal(suite.T(), "Acme Corp", row["name"])
	assert.Equal(suite.T(), "client_admin", row["role"])
	assert.Equal(suite.T(), "submitted", row["status"])

	services, ok := row["services"].([]any)
	suite.Require().True(ok)
	assert.Contains(suite.T(), services, "SEO")
	assert.Contains(suite.T(), services, "PPC")
}

func (suite *CompanyHandlerTestSuite) TestGet_Detail() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)
	questionnaire := suite.createSubmittedQuestionnaire(company.ID, user.ID, []string{"seo"})

	suite.db.Create(&models.QuestionnaireResponse{
		QuestionnaireID: questionnaire.ID,
		SectionKey:      "business",
		Responses:       datatypes.JSONMap{"company_name": "Acme Corp"},
		UpdatedBy:       user.ID,
	})
	suite.db.Create(&models.Asset{
		CompanyID: company.ID,
		Bucket:    constants.AssetBucket,
		Path:      "1/1700000000000-logo.png",
		Label:     "logo.png",
		CreatedBy: user.ID,
	})

	c, w := suite.createCompanyContext("GET", "/api/companies/1", nil, user.ID, *company, *member)

	suite.handler.Get(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Acme Corp", response["name"])

	q, ok := response["questionnaire"].(map[string]any)
	suite.Require().True(ok)
	assert.Equal(suite.T(), "submitted", q["status"])

	sections, ok := q["responses"].(map[string]any)
	suite.Require().True(ok)
	assert.Contains(suite.T(), sections, "business")

	assets, ok := response["assets"].([]any)
	suite.Require().True(ok)
	assert.Len(suite.T(), assets, 1)
}

func (suite *CompanyHandlerTestSuite) TestMembers() {
	admin := suite.createTestUser("admin@example.com")
	viewer := suite.createTestUser("viewer@example.com")
	company := suite.createTestCompany("Acme Corp")
	adminMember := suite.createTestMember(company.ID, admin.ID, models.RoleClientAdmin)
	suite.createTestMember(company.ID, viewer.ID, models.RoleViewer)

	c, w := suite.createCompanyContext("GET", "/api/companies/1/members", nil, admin.ID, *company, *adminMember)

	suite.handler.Members(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Members []map[string]any `json:"members"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Members, 2)

	byEmail := make(map[string]string, len(response.Members))
	for _, member := range response.Members {
		byEmail[member["email"].(string)] = member["role"].(string)
	}
	assert.Equal(suite.T(), "client_admin", byEmail["admin@example.com"])
	assert.Equal(suite.T(), "viewer", byEmail["viewer@example.com"])
}

func (suite *CompanyHandlerTestSuite) TestActivity_MostRecentFirst() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)

	base := time.Now().Add(-time.Hour)
	for i, action := range []string{models.AuditUpdateResponse, models.AuditInviteSent, models.AuditSubmitQuestionnaire} {
		suite.db.Create(&models.AuditLog{
			CompanyID: company.ID,
			Actor:     user.ID,
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	c, w := suite.createCompanyContext("GET", "/api/companies/1/activity", nil, user.ID, *company, *member)

	suite.handler.Activity(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Activity   []map[string]any `json:"activity"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Activity, 3)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)
	assert.Equal(suite.T(), models.AuditSubmitQuestionnaire, response.Activity[0]["action"])
	assert.Equal(suite.T(), models.AuditUpdateResponse, response.Activity[2]["action"])
}

func (suite *CompanyHandlerTestSuite) TestExportCSV() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)
	questionnaire := suite.createSubmittedQuestionnaire(company.ID, user.ID, []string{"seo"})

	suite.db.Create(&models.QuestionnaireResponse{
		QuestionnaireID: questionnaire.ID,
		SectionKey:      "business",
		Responses: datatypes.JSONMap{
			"company_name": "Acme \"The Best\" Corp",
			"website":      "https://acme.example.com",
		},
		UpdatedBy: user.ID,
	})

	c, w := suite.createCompanyContext("GET", "/api/companies/1/export", nil, user.ID, *company, *member)

	suite.handler.ExportCSV(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(suite.T(), w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	suite.Require().Len(lines, 3)
	assert.Equal(suite.T(), "section,field,value", lines[0])
	// Every data cell is quoted, internal quotes doubled.
	assert.Contains(suite.T(), w.Body.String(), `"Acme ""The Best"" Corp"`)
	assert.Equal(suite.T(), `"business","company_name","Acme ""The Best"" Corp"`, lines[1])
}

func (suite *CompanyHandlerTestSuite) TestExportCSV_NoQuestionnaire() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)

	c, w := suite.createCompanyContext("GET", "/api/companies/1/export", nil, user.ID, *company, *member)

	suite.handler.ExportCSV(c)

	// Header row only.
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "section,field,value", strings.TrimRight(w.Body.String(), "\n"))
}

func (suite *CompanyHandlerTestSuite) TestRequestAccess() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientMember)

	body, err := json.Marshal(map[string]string{
		"access_type": "google_analytics",
		"notes":       "Need read access for reporting",
	})
	suite.Require().NoError(err)

	c, w := suite.createCompanyContext("POST", "/api/companies/1/access-requests", body, user.ID, *company, *member)

	suite.handler.RequestAccess(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var entry models.AuditLog
	suite.Require().NoError(suite.db.
		Where("company_id = ? AND action = ?", company.ID, models.AuditAccessRequest).
		First(&entry).Error)
	assert.Equal(suite.T(), "google_analytics", entry.Details["access_type"])
}

func (suite *CompanyHandlerTestSuite) TestRequestAccess_MissingType() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientMember)

	body, err := json.Marshal(map[string]string{"notes": "no type"})
	suite.Require().NoError(err)

	c, w := suite.createCompanyContext("POST", "/api/companies/1/access-requests", body, user.ID, *company, *member)

	suite.handler.RequestAccess(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *CompanyHandlerTestSuite) TestSummarize_ViewerForbidden() {
	user := suite.createTestUser("viewer@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleViewer)
	questionnaire := suite.createSubmittedQuestionnaire(company.ID, user.ID, []string{"seo"})

	suite.db.Create(&models.QuestionnaireResponse{
		QuestionnaireID: questionnaire.ID,
		SectionKey:      "business",
		Responses:       datatypes.JSONMap{"company_name": "Acme Corp"},
		UpdatedBy:       user.ID,
	})

	c, w := suite.createCompanyContext("POST", "/api/companies/1/summarize", nil, user.ID, *company, *member)

	suite.handler.Summarize(c)

	// Denied before the questionnaire lookup, even with responses present.
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "FORBIDDEN")
}

func (suite *CompanyHandlerTestSuite) TestSummarize_NotConfigured() {
	user := suite.createTestUser("admin@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)

	c, w := suite.createCompanyContext("POST", "/api/companies/1/summarize", nil, user.ID, *company, *member)

	suite.handler.Summarize(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func TestCompanyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyHandlerTestSuite))
}
