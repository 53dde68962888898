package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts_backend/database"
	_ "contacts_backend/docs"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/config"
	"contacts_backend/internal/email"
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/routes"
	"contacts_backend/internal/services"
	"contacts_backend/internal/storage"
	"contacts_backend/internal/validator"
	"contacts_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ginRouter, err := SetupRouter(ctx, cfg, gormDB, initializeEmailProvider(cfg))
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	startWorkers(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         address,
		Handler:      ginRouter,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает сервисы, хэндлеры и маршруты. ctx ограничивает
// жизнь фоновых задач (очистка rate limiter).
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, emailProvider email.Provider) (*gin.Engine, error) {
	setGinMode(cfg.Server.Env)

	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:         cfg.Storage.Type,
		BasePath:     cfg.Storage.BasePath,
		BaseURL:      cfg.Storage.BaseURL,
		Bucket:       cfg.Storage.Bucket,
		Region:       cfg.Storage.Region,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		Endpoint:     cfg.Storage.Endpoint,
		UsePathStyle: cfg.Storage.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, storageInstance, emailProvider)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter, err := initializeGinRouter(gormDB, cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	limiter.StartCleanup(ctx, time.Minute)

	opts := routes.Options{Swagger: cfg.Server.Env != "production"}
	if local, ok := storageInstance.(*storage.LocalStorage); ok {
		opts.AvatarsDir = local.BasePath()
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, routes.Middlewares{
		Auth:      middleware.AuthMiddleware(serviceContainer.AuthService),
		RateLimit: limiter.Middleware(),
	}, opts)

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, emailProvider email.Provider) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	contactRepo := repositories.NewContactRepository()

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	emailService := services.NewEmailService(emailProvider, cfg.Server.PublicURL)

	uploadConfig := services.GetDefaultUploadConfig()
	uploadConfig.MaxFileSize = cfg.Upload.MaxSize
	uploadConfig.TempDir = cfg.Upload.TempDir
	uploadConfig.AvatarSize = cfg.Upload.AvatarSize
	uploadConfig.ImageQuality = cfg.Upload.ImageQuality
	if len(cfg.Upload.AllowedTypes) > 0 {
		uploadConfig.AllowedTypes = cfg.Upload.AllowedTypes
	}

	// --- Сервисы ---
	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, tokenManager, emailService),
		UserService:    services.NewUserService(userRepo),
		ContactService: services.NewContactService(contactRepo),
		UploadService:  services.NewUploadService(userRepo, storageInstance, uploadConfig),
		EmailService:   emailService,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UserHandler: handlers.NewUserHandler(
			baseHandler,
			services.AuthService,
			services.UserService,
			services.UploadService,
			cfg.Upload.MaxSize,
		),
		ContactHandler: handlers.NewContactHandler(baseHandler, services.ContactService),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}
}

// initializeGinRouter - ClientIP (ключ rate limiter) берется из X-Forwarded-For
// только от перечисленных прокси, иначе из адреса соединения
func initializeGinRouter(db *gorm.DB, trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router, nil
}

// startWorkers - фоновая чистка, живет до отмены ctx
func startWorkers(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) {
	ttl := time.Duration(cfg.JWT.TTLHours) * time.Hour
	workers.NewSessionWorker(gormDB, repositories.NewUserRepository(), ttl).Start(ctx)
	workers.NewUploadCleanupWorker(cfg.Upload.TempDir).Start(ctx)
	logger.Info("Background workers started")
}

// initializeEmailProvider - без SMTP письма только пишутся в лог
func initializeEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email delivery is disabled, verification links are logged instead")
		return email.NewLogProvider(logger.GetLogger())
	}

	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	smtpConfig.Port = cfg.Email.SMTPPort
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName

	provider := email.NewSMTPProvider(smtpConfig, email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Fatal("Invalid SMTP configuration", "error", err)
	}
	logger.Info("SMTP email provider initialized", "host", smtpConfig.Host)
	return provider
}

func setGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
