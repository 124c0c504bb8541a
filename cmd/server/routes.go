package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rentflow/rentauth/internal/handlers"
	"github.com/rentflow/rentauth/internal/middleware"
	"github.com/rentflow/rentauth/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential-bearing routes
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", handlers.Health)

	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.signer))
		{
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.GET("/auth/sessions", svc.authHandler.Sessions)
			protected.DELETE("/auth/sessions/:id", svc.authHandler.RevokeSession)
		}
	}
}
