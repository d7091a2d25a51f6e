package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/halewood/onboarding-api/internal/constants"
	"github.com/halewood/onboarding-api/internal/database"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSigner records presign calls without talking to object storage.
type fakeSigner struct {
	fail bool
}

func (f *fakeSigner) PresignUpload(_ context.Context, objectPath string, _ time.Duration) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unreachable")
	}
	return "https://storage.example.com/upload/" + objectPath, nil
}

func (f *fakeSigner) PresignDownload(_ context.Context, objectPath string, _ string, _ time.Duration) (string, error) {
	if f.fail {
		return "", fmt.Errorf("storage unreachable")
	}
	return "https://storage.example.com/download/" + objectPath, nil
}

// AssetHandlerTestSuite defines the test suite for AssetHandler
type AssetHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	signer  *fakeSigner
	handler *AssetHandler
}

// SetupTest runs before each test
func (suite *AssetHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Asset{},
		&models.AuditLog{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	assetRepo := repository.NewAssetRepository(suite.db)
	companyRepo := repository.NewCompanyRepository(suite.db)
	auditRepo := repository.NewAuditRepository(suite.db)

	suite.signer = &fakeSigner{}
	assetService := services.NewAssetService(assetRepo, companyRepo, auditRepo, suite.signer)
	suite.handler = NewAssetHandler(assetService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AssetHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AssetHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "hashedpassword"}
	suite.db.Create(user)
	return user
}

func (suite *AssetHandlerTestSuite) createTestCompany(name string) *models.Company {
	company := &models.Company{Name: name}
	suite.db.Create(company)
	return company
}

func (suite *AssetHandlerTestSuite) createTestMember(companyID, userID uint64, role models.MemberRole) *models.CompanyMember {
	member := &models.CompanyMember{CompanyID: companyID, UserID: userID, Role: role}
	suite.db.Create(member)
	return member
}

func (suite *AssetHandlerTestSuite) TestRequestUpload() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)

	body, err := json.Marshal(map[string]string{
		"file_name": "brand-guidelines.pdf",
		"kind":      "document",
	})
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/companies/1/assets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(middleware.ContextKeyCompany, *company)
	c.Set(middleware.ContextKeyCompanyMember, *member)

	suite.handler.RequestUpload(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(suite.T(), response["upload_url"], "https://storage.example.com/upload/")
	assert.Contains(suite.T(), response["path"], "brand-guidelines.pdf")

	// Metadata row exists before any bytes move.
	var asset models.Asset
	suite.Require().NoError(suite.db.Where("company_id = ?", company.ID).First(&asset).Error)
	assert.Equal(suite.T(), constants.AssetBucket, asset.Bucket)
	assert.Equal(suite.T(), "brand-guidelines.pdf", asset.Label)
	assert.Equal(suite.T(), user.ID, asset.CreatedBy)

	var auditCount int64
	suite.db.Model(&models.AuditLog{}).
		Where("company_id = ? AND action = ?", company.ID, models.AuditAssetUploadRequested).
		Count(&auditCount)
	assert.Equal(suite.T(), int64(1), auditCount)
}

func (suite *AssetHandlerTestSuite) TestRequestUpload_SignerFailure() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	member := suite.createTestMember(company.ID, user.ID, models.RoleClientAdmin)

	suite.signer.fail = true

	body, err := json.Marshal(map[string]string{"file_name": "logo.png"})
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/companies/1/assets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(middleware.ContextKeyCompany, *company)
	c.Set(middleware.ContextKeyCompanyMember, *member)

	suite.handler.RequestUpload(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	// No metadata row when no URL was issued.
	var count int64
	suite.db.Model(&models.Asset{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *AssetHandlerTestSuite) TestDownload_AsMember() {
	user := suite.createTestUser("client@example.com")
	company := suite.createTestCompany("Acme Corp")
	suite.createTestMember(company.ID, user.ID, models.RoleViewer)

	asset := &models.Asset{
		CompanyID: company.ID,
		Bucket:    constants.AssetBucket,
		Path:      "1/1700000000000-logo.png",
		Label:     "logo.png",
		CreatedBy: user.ID,
	}
	suite.db.Create(asset)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/assets/1/download", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(asset.ID)}}
	c.Set(constants.ContextKeyUserID, user.ID)

	suite.handler.Download(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "https://storage.example.com/download/"+asset.Path, response["download_url"])
}

func (suite *AssetHandlerTestSuite) TestDownload_NonMemberForbidden() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	company := suite.createTestCompany("Acme Corp")
	suite.createTestMember(company.ID, owner.ID, models.RoleClientAdmin)

	asset := &models.Asset{
		CompanyID: company.ID,
		Bucket:    constants.AssetBucket,
		Path:      "1/1700000000000-logo.png",
		CreatedBy: owner.ID,
	}
	suite.db.Create(asset)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/assets/1/download", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(asset.ID)}}
	c.Set(constants.ContextKeyUserID, outsider.ID)

	suite.handler.Download(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "storage.example.com")
}

func (suite *AssetHandlerTestSuite) TestDownload_UnknownAsset() {
	user := suite.createTestUser("client@example.com")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/assets/999/download", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	c.Set(constants.ContextKeyUserID, user.ID)

	suite.handler.Download(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestAssetHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AssetHandlerTestSuite))
}
