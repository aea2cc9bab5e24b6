package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, sessions domain.SessionStore) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handler.Login)
		}

		// Everything under /comparison requires an authenticated session
		comparison := v1.Group("/comparison")
		comparison.Use(SessionMiddleware(sessions, cfg.Session.CookieName))
		{
			comparison.POST("/search", handler.Search)
			comparison.PUT("/rows/:index", handler.EditRow)
			comparison.GET("/export", handler.Export)
			comparison.DELETE("", handler.Reset)
		}
	}

	return router
}
