package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/rentflow/rentauth/internal/clients"
	"github.com/rentflow/rentauth/internal/config"
	"github.com/rentflow/rentauth/internal/handlers"
	"github.com/rentflow/rentauth/internal/models"
	"github.com/rentflow/rentauth/internal/services"
	"github.com/rentflow/rentauth/internal/store"
	"github.com/rentflow/rentauth/internal/token"
	"github.com/rentflow/rentauth/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	signer         *token.Signer
	authHandler    *handlers.AuthHandler
	cleanupService *services.CleanupService
}

// bootstrap initializes all application dependencies: database, token store,
// credential verifier, services and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	db, err := models.Open(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	signer := token.NewSigner(&cfg.JWT)

	// Refresh-token records live in the database by default; redis is an
	// alternative backend for multi-instance deployments.
	var tokens store.RefreshTokenStore
	switch cfg.Sessions.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tokens = store.NewRedisStore(client)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session backend")
	default:
		tokens = store.NewGormStore(db)
	}

	var verifier clients.CredentialVerifier
	switch cfg.Auth.Provider {
	case "local":
		local := clients.NewLocalVerifier(db)
		if err := local.SeedAdmin("admin", "admin123"); err != nil {
			logger.Warn().Err(err).Msg("Failed to seed admin user")
		}
		verifier = local
	default:
		verifier = clients.NewUserServiceClient(&cfg.Auth)
		logger.Info().Str("url", cfg.Auth.UserServiceURL).Msg("Using remote credential verifier")
	}

	authService := services.NewAuthService(verifier, signer, tokens, &cfg.JWT)

	var cleanupService *services.CleanupService
	if cfg.Cleanup.Enabled {
		cleanupService = services.NewCleanupService(tokens, &cfg.Cleanup)
		if err := cleanupService.Start(); err != nil {
			logger.Fatalf("Failed to start cleanup scheduler: %v", err)
		}
	}

	return &appServices{
		signer:         signer,
		authHandler:    handlers.NewAuthHandler(authService),
		cleanupService: cleanupService,
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	if s.cleanupService != nil {
		s.cleanupService.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
