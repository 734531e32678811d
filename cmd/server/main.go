package main

import (
	"log"
	"net/http"
	"os"

	_ "legalai/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"legalai/internal/assistant"
	"legalai/internal/auth"
	"legalai/internal/cache"
	"legalai/internal/config"
	"legalai/internal/db"
	"legalai/internal/email"
	"legalai/internal/handler"
	"legalai/internal/model"
	"legalai/internal/repository"
	"legalai/internal/router"
	"legalai/internal/service"
	"legalai/internal/storage"
)

// @title LegalAI RD API
// @version 1.0
// @description AI legal assistant platform with daily quotas, plus subscriptions and human advisory requests.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.ChatMessage{},
			&model.ChatSession{},
			&model.MessageCount{},
			&model.Advisory{},
			&model.Payment{},
			&model.Law{},
			&model.RoleLimit{},
			&model.APIConfig{},
			&model.Profile{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.RoleLimit{},
		&model.MessageCount{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Advisory{},
		&model.Payment{},
		&model.APIConfig{},
		&model.Law{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	quotaRepo := repository.NewQuotaRepository(gormDB)
	chatRepo := repository.NewChatRepository(gormDB)
	advisoryRepo := repository.NewAdvisoryRepository(gormDB)
	configRepo := repository.NewConfigRepository(gormDB)
	lawRepo := repository.NewLawRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Avatar storage
	var store storage.Storage
	if cfg.StorageProvider == storage.ProviderS3 {
		store, err = storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			PublicURL:       cfg.S3PublicURL,
		})
	} else {
		store, err = storage.NewLocalStorage(cfg.StorageBasePath, cfg.StorageBaseURL)
	}
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	// Advisory notification mail; noop when no provider is configured.
	var notifier email.Notifier = email.NoopNotifier{}
	if cfg.SendgridAPIKey != "" && cfg.SendgridFrom != "" {
		notifier = email.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.SendgridFrom)
	}

	assistantClient := assistant.NewHTTPClient(
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
		cfg.OpenAIAssistantID,
		cfg.OpenAIModel,
		cfg.AssistantPollEvery,
		cfg.AssistantMaxPollTries,
	)

	// Initialize services
	authService := service.NewAuthService(profileRepo, jwtService, tokenStore)
	profileService := service.NewProfileService(profileRepo, store)
	quotaService := service.NewQuotaService(quotaRepo, profileRepo)
	subscriptionService := service.NewSubscriptionService(profileRepo, paymentRepo, configRepo)
	chatService := service.NewChatService(chatRepo, quotaService, assistantClient)
	advisoryService := service.NewAdvisoryService(advisoryRepo, profileRepo, notifier)
	statsService := service.NewStatsService(profileRepo, chatRepo, advisoryRepo, paymentRepo, quotaRepo, cacheClient)
	lawService := service.NewLawService(lawRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService, quotaService, subscriptionService)
	chatHandler := handler.NewChatHandler(chatService)
	advisoryHandler := handler.NewAdvisoryHandler(advisoryService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	lawHandler := handler.NewLawHandler(lawService)
	adminHandler := handler.NewAdminHandler(statsService, quotaService, subscriptionService, advisoryService)

	// Register routes
	router.Register(
		e,
		cfg,
		profileService,
		authHandler,
		profileHandler,
		chatHandler,
		advisoryHandler,
		subscriptionHandler,
		lawHandler,
		adminHandler,
	)

	// Log swagger full path
	var swaggerURL string
	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include scheme (http:// or https://)
		if len(cfg.SwaggerHost) >= 7 && cfg.SwaggerHost[:7] == "http://" {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else if len(cfg.SwaggerHost) >= 8 && cfg.SwaggerHost[:8] == "https://" {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	} else {
		swaggerURL = "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
