package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/halewood/onboarding-api/internal/config"
	"github.com/halewood/onboarding-api/internal/constants"
	"github.com/halewood/onboarding-api/internal/database"
	"github.com/halewood/onboarding-api/internal/handlers"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/services"
	"github.com/halewood/onboarding-api/internal/storage"
	"github.com/halewood/onboarding-api/internal/vault"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Object storage signer for asset upload/download URLs
	signer, err := storage.NewMinioSigner(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage signer: %v", err)
	}

	// Credential vault. Sealed/opened only behind the services layer.
	secretVault := vault.New(cfg.SecretPassphrase)
	if !secretVault.Enabled() {
		log.Println("SECRET_PASSPHRASE not set; secret storage is disabled")
	}

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	questionnaireRepo := repository.NewQuestionnaireRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	secretRepo := repository.NewSecretRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	intakeService := services.NewIntakeService(companyRepo, questionnaireRepo, auditRepo)
	companyService := services.NewCompanyService(companyRepo, questionnaireRepo, assetRepo, secretRepo, auditRepo)
	inviteService := services.NewInviteService(inviteRepo, companyRepo, auditRepo, cfg.SiteURL)
	assetService := services.NewAssetService(assetRepo, companyRepo, auditRepo, signer)
	secretService := services.NewSecretService(secretRepo, companyRepo, auditRepo, secretVault)

	var summaryService *services.SummaryService
	if cfg.OpenAIAPIKey != "" {
		summaryService = services.NewSummaryService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	intakeHandler := handlers.NewIntakeHandler(intakeService)
	companyHandler := handlers.NewCompanyHandler(companyService, summaryService)
	inviteHandler := handlers.NewInviteHandler(inviteService, authService)
	assetHandler := handlers.NewAssetHandler(assetService)
	secretHandler := handlers.NewSecretHandler(secretService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Onboarding API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Invite lookup is public; the token is the credential. Acceptance
		// requires a signed-in user.
		invites := api.Group("/invites")
		{
			invites.GET("/:token", inviteHandler.Get)
			invites.POST("/:token/accept", middleware.RequireAuth(), inviteHandler.Accept)
		}

		// Intake wizard routes (protected)
		intake := api.Group("/intake")
		intake.Use(middleware.RequireAuth())
		{
			intake.GET("/sections", intakeHandler.GetSections)
			intake.POST("/sections/:key", intakeHandler.SaveSection)
			intake.POST("/submit", intakeHandler.Submit)
		}

		// Company routes (protected)
		companies := api.Group("/companies")
		companies.Use(middleware.RequireAuth())
		{
			companies.GET("", companyHandler.List)
			companies.GET("/:id", middleware.RequireCompanyAccess(), companyHandler.Get)
			companies.GET("/:id/members", middleware.RequireCompanyAccess(), companyHandler.Members)
			companies.GET("/:id/activity", middleware.RequireCompanyAccess(), companyHandler.Activity)
			companies.GET("/:id/export", middleware.RequireCompanyAccess(), companyHandler.ExportCSV)
			companies.POST("/:id/access-requests", middleware.RequireCompanyAccess(), companyHandler.RequestAccess)
			companies.POST("/:id/summarize", middleware.RequireCompanyAccess(), companyHandler.Summarize)
			companies.POST("/:id/invites", middleware.RequireCompanyAccess(), inviteHandler.Create)
			companies.POST("/:id/assets", middleware.RequireCompanyAccess(), assetHandler.RequestUpload)
			companies.GET("/:id/secrets", middleware.RequireCompanyAccess(), secretHandler.List)
			companies.POST("/:id/secrets", middleware.RequireCompanyAccess(), secretHandler.Create)
		}

		// Asset and secret routes addressed by their own IDs (protected);
		// membership on the owning company is checked in the service.
		assets := api.Group("/assets")
		assets.Use(middleware.RequireAuth())
		{
			assets.GET("/:id/download", assetHandler.Download)
		}

		secrets := api.Group("/secrets")
		secrets.Use(middleware.RequireAuth())
		{
			secrets.POST("/:id/reveal", secretHandler.Reveal)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
