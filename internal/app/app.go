package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tungtase04539/sangtaophaisinh/database"
	"github.com/tungtase04539/sangtaophaisinh/internal/auth"
	"github.com/tungtase04539/sangtaophaisinh/internal/config"
	"github.com/tungtase04539/sangtaophaisinh/internal/email"
	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/handlers"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/middleware"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/routes"
	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/validator"
	"github.com/tungtase04539/sangtaophaisinh/internal/workers"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
	"github.com/tungtase04539/sangtaophaisinh/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	bus := events.NewBus(cfg.Realtime.BufferSize)
	tx := repositories.NewGormTransactor(gormDB)
	repos := services.NewRepositories()
	serviceContainer := services.NewServiceContainer(tx, repos, tokens, bus, bus, services.CreditPolicyFromConfig(cfg))

	if err := serviceContainer.AuthService.EnsureAdmin(ctx, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)
	bus.Subscribe(wsManager)
	bus.Subscribe(serviceContainer.NotificationStore)
	bus.Subscribe(email.NewNotifier(newEmailProvider(cfg), serviceContainer.Recipients))

	if cfg.Realtime.BridgeEnabled {
		bridge, err := events.NewPGBridge(ctx, cfg.Database.DSN, cfg.Realtime.Channel, bus)
		if err != nil {
			logger.Fatal("Failed to start realtime bridge", "error", err)
		}
		defer bridge.Close()
		bus.Subscribe(bridge)
		go bridge.Listen(ctx)
		logger.Info("Realtime bridge enabled", "channel", cfg.Realtime.Channel)
	}
	bus.Start(ctx)

	deadlines := workers.NewDeadlineWorker(tx, repos.Jobs, bus, time.Duration(cfg.Workers.DeadlineScanMinutes)*time.Minute)
	deadlines.Start(ctx)

	requireAuth := middleware.AuthMiddleware(tokens)
	appHandlers := handlers.NewAppHandlers(validator.New(), requireAuth, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.Server.CORSOrigins)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, requireAuth)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	bus.Wait()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logger.NewGormLogger(cfg.Server.Env),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connected")
	return gormDB, nil
}

// newEmailProvider falls back to logging mails when SMTP is disabled or
// incomplete.
func newEmailProvider(cfg *config.Config) email.Provider {
	renderer, err := email.NewDefaultTemplateManager()
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}

	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, mails are only logged")
		return email.NewLogProvider(renderer)
	}

	smtp := email.DefaultConfig()
	smtp.Host = cfg.Email.SMTPHost
	smtp.Port = cfg.Email.SMTPPort
	smtp.Username = cfg.Email.SMTPUsername
	smtp.Password = cfg.Email.SMTPPassword
	smtp.FromEmail = cfg.Email.FromEmail
	smtp.FromName = cfg.Email.FromName

	provider := email.NewGomailProvider(smtp, renderer)
	if err := provider.Validate(); err != nil {
		logger.Warn("Invalid SMTP configuration, mails are only logged", "error", err)
		return email.NewLogProvider(renderer)
	}
	return provider
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	return router
}
