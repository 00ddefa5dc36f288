package http

import (
	"github.com/gin-gonic/gin"
	"github.com/specforms/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	limiter := RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	router.GET("/health", handler.HealthCheck)

	// Unversioned path kept for existing upload clients
	router.POST("/upload", limiter, handler.UploadSpreadsheet)

	v1 := router.Group("/api/v1")
	{
		schemas := v1.Group("/schemas")
		{
			schemas.POST("/upload", limiter, handler.UploadSpreadsheet)
			schemas.GET("/:type/:category", handler.GetSchema)
		}
	}

	return router
}
