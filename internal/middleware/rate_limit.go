package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// Requests allowed per window
	Requests int
	// Window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// RateLimiter implements a fixed-window limiter backed by Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance.
func NewRateLimiter(client *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// NewRecipeCreationRateLimiter limits how fast a single user may publish
// recipes.
func NewRecipeCreationRateLimiter(client *redis.Client) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Requests:  5,
		Window:    time.Hour,
		KeyPrefix: "rate_limit:recipe_creation",
	})
}

// IsAllowed records one request for the identifier and reports whether it
// is within the window's budget. Returns the remaining budget and the
// window reset time.
func (rl *RateLimiter) IsAllowed(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("%s:%s", rl.config.KeyPrefix, identifier)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	remaining := rl.config.Requests - count
	if remaining < 0 {
		remaining = 0
	}
	resetTime := time.Now().Add(rl.config.Window)

	return count <= rl.config.Requests, remaining, resetTime, nil
}

// Middleware enforces the limit per authenticated user. It must run after
// AuthMiddleware. When the limiter cannot reach Redis the request is let
// through; publishing beats strict enforcement.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		id, ok := userID.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
			c.Abort()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), id.String())
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.Requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
