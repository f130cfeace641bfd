package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartmeet/meeting-assistant-api/config"
	"github.com/smartmeet/meeting-assistant-api/database"
	"github.com/smartmeet/meeting-assistant-api/handlers"
	actionitem_handlers "github.com/smartmeet/meeting-assistant-api/handlers/actionitem"
	auth_handlers "github.com/smartmeet/meeting-assistant-api/handlers/auth"
	meeting_handlers "github.com/smartmeet/meeting-assistant-api/handlers/meeting"
	team_handlers "github.com/smartmeet/meeting-assistant-api/handlers/team"
	"github.com/smartmeet/meeting-assistant-api/services"
	"github.com/smartmeet/meeting-assistant-api/services/llm"
	"github.com/smartmeet/meeting-assistant-api/services/storage"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
	"github.com/smartmeet/meeting-assistant-api/utils/cache"
	"github.com/smartmeet/meeting-assistant-api/utils/middleware"
)

// SetupRoutes wires every service, middleware, and endpoint onto the app
func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		RefreshSecret: getEnv.JWT_REFRESH_SECRET,
		Expiry:        getEnv.ACCESS_TOKEN_TTL,
		RefreshExpiry: getEnv.REFRESH_TOKEN_TTL,
		Issuer:        getEnv.JWT_ISSUER,
	})

	db := store.DB()

	// Redis backs token revocation, the profile cache, and brute force
	// protection. Revocation must not silently degrade, so a dead Redis is
	// fatal here.
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	revocation := auth.NewRevocationService(redisCache)
	profileCache := auth.NewProfileCache(redisCache)
	bruteForce := middleware.NewBruteForceProtection(redisCache)

	emailService := services.NewEmailService(services.EmailConfig{
		Host:     getEnv.SMTP_HOST,
		Port:     getEnv.SMTP_PORT,
		Username: getEnv.SMTP_USERNAME,
		Password: getEnv.SMTP_PASSWORD,
		From:     getEnv.SMTP_FROM,
		AppURL:   getEnv.APP_URL,
	})

	users := database.NewUserRepository(db)
	authService := services.NewAuthService(users, jwtManager, revocation, profileCache, emailService)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, revocation, users, profileCache)
	authHandler := auth_handlers.NewAuthHandler(authService, bruteForce, getEnv.IsProduction())

	// Object storage is optional; meetings work without recordings
	var store3 *storage.Client
	if getEnv.S3_BUCKET != "" {
		store3, err = storage.NewClient(storage.Config{
			AccessKey: getEnv.S3_ACCESS_KEY,
			SecretKey: getEnv.S3_SECRET_KEY,
			Bucket:    getEnv.S3_BUCKET,
			Region:    getEnv.S3_REGION,
			Endpoint:  getEnv.S3_ENDPOINT,
			CDNURL:    getEnv.S3_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: object storage unavailable, recording uploads disabled: %v", err)
		}
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:  getEnv.LLM_API_KEY,
		BaseURL: getEnv.LLM_BASE_URL,
		Model:   getEnv.LLM_MODEL,
	})
	summaryService := services.NewSummaryService(llmClient)

	meetingService := services.NewMeetingService(db, summaryService, store3, services.NewTranscriptExtractor())
	meetingHandler := meeting_handlers.NewMeetingHandler(meetingService)

	teamService := services.NewTeamService(db)
	teamHandler := team_handlers.NewTeamHandler(teamService)

	actionItemService := services.NewActionItemService(db, meetingService)
	actionItemHandler := actionitem_handlers.NewActionItemHandler(actionItemService)

	healthHandler := handlers.NewHealthHandler(store, redisCache)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", healthHandler.Ping)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", bruteForce.CheckLockout(), authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.RefreshToken)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/resend-verification", authHandler.ResendVerification)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/update-password", authMiddleware.Required(), authHandler.UpdatePassword)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Team routes (protected)
	teams := api.Group("/teams", authMiddleware.Required())
	teams.Post("/", teamHandler.CreateTeam)
	teams.Get("/", teamHandler.ListTeams)
	teams.Get("/:id", teamHandler.GetTeam)
	teams.Put("/:id", teamHandler.UpdateTeam)
	teams.Delete("/:id", teamHandler.DeleteTeam)
	teams.Post("/:id/members", teamHandler.AddMember)
	teams.Delete("/:id/members/:user_id", teamHandler.RemoveMember)

	// Meeting routes (protected)
	meetings := api.Group("/meetings", authMiddleware.Required())
	meetings.Post("/", meetingHandler.CreateMeeting)
	meetings.Get("/", meetingHandler.ListMeetings)
	meetings.Get("/:id", meetingHandler.GetMeeting)
	meetings.Put("/:id", meetingHandler.UpdateMeeting)
	meetings.Delete("/:id", meetingHandler.DeleteMeeting)
	meetings.Post("/:id/start", meetingHandler.StartMeeting)
	meetings.Post("/:id/end", meetingHandler.EndMeeting)
	meetings.Post("/:id/cancel", meetingHandler.CancelMeeting)
	meetings.Post("/:id/transcript", meetingHandler.UploadTranscript)
	meetings.Post("/:id/recording", meetingHandler.UploadRecording)
	meetings.Post("/:id/summarize", meetingHandler.Summarize)

	// Action item routes (protected)
	actionItems := api.Group("/action-items", authMiddleware.Required())
	actionItems.Post("/", actionItemHandler.CreateActionItem)
	actionItems.Get("/", actionItemHandler.ListActionItems)
	actionItems.Get("/:id", actionItemHandler.GetActionItem)
	actionItems.Put("/:id", actionItemHandler.UpdateActionItem)
	actionItems.Post("/:id/complete", actionItemHandler.CompleteActionItem)
	actionItems.Delete("/:id", actionItemHandler.DeleteActionItem)
}
