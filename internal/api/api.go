// Package api wires the HTTP handlers for the recipe service.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cookio/cookio/backend/config"
	"github.com/cookio/cookio/backend/internal/auth"
	"github.com/cookio/cookio/backend/internal/middleware"
	"github.com/cookio/cookio/backend/internal/service"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Cookio API is running",
		"version": "v1.0.0",
	})
}

// SetupAPI mounts all routes on the router. redisClient may be nil, in
// which case recipe creation is not rate limited. Google sign-in is
// enabled only when OAuth credentials are configured.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	router.GET("/health", HealthCheck)

	recipeService := service.NewRecipeService(db)
	authService := service.NewAuthService(db, cfg.JWTSecret)

	var creationLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	var googleProvider *auth.GoogleProvider
	if cfg.GoogleClientID != "" {
		googleProvider = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}

	v1 := router.Group("/api/v1")
	NewRecipeHandler(recipeService, authService, creationLimiter).RegisterRoutes(v1)
	NewAuthHandler(authService, googleProvider).RegisterRoutes(v1)
}
