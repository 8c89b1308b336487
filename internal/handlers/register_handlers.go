package handlers

import (
	"net/http"

	"github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/courierhq/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcContainer *services.ServiceContainer, rateLimiter *limiter.Limiter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupSwaggerRoutes(r, cfg)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(middleware.Identity())
	if rateLimiter != nil {
		apiV1.Use(middleware.RateLimit(rateLimiter))
	}
	{
		registerAccountRoutes(apiV1, svcContainer.Account)
		registerLedgerRoutes(apiV1, svcContainer.Balance)
		registerTransactionRoutes(apiV1, svcContainer.Posting)
		registerReportingRoutes(apiV1, svcContainer.Reporting)
	}
}

// setupSwaggerRoutes serves the API documentation outside production.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
