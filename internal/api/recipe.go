package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cookio/cookio/backend/internal/middleware"
	"github.com/cookio/cookio/backend/internal/model"
	"github.com/cookio/cookio/backend/internal/normalize"
	"github.com/cookio/cookio/backend/internal/service"
	"github.com/cookio/cookio/backend/internal/types"
)

// RecipeHandler handles recipe-related HTTP requests.
type RecipeHandler struct {
	recipes         *service.RecipeService
	auth            *service.AuthService
	creationLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates a new RecipeHandler. creationLimiter may be nil
// when Redis is not configured.
func NewRecipeHandler(recipes *service.RecipeService, auth *service.AuthService, creationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:         recipes,
		auth:            auth,
		creationLimiter: creationLimiter,
	}
}

// RegisterRoutes registers the recipe routes on /recipes.
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:slug", h.GetRecipe)

		create := []gin.HandlerFunc{middleware.AuthMiddleware(h.auth)}
		if h.creationLimiter != nil {
			create = append(create, h.creationLimiter.Middleware())
		}
		recipes.POST("", append(create, h.CreateRecipe)...)

		authed := recipes.Group("", middleware.AuthMiddleware(h.auth))
		{
			authed.POST("/:slug/save", h.SaveRecipe)
			authed.DELETE("/:slug/save", h.UnsaveRecipe)
			authed.POST("/:slug/like", h.LikeRecipe)
			authed.DELETE("/:slug/like", h.UnlikeRecipe)
		}
	}
}

// ListRecipes returns one page of recipes matching the query parameters.
// Unknown or malformed parameters are ignored rather than rejected.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		Difficulty:  c.Query("difficulty"),
		MaxTime:     queryNumber(c, "maxTime"),
		MaxCalories: queryNumber(c, "maxCalories"),
		UserID:      c.Query("userId"),
		Saved:       strings.EqualFold(c.Query("saved"), "true"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
	}

	recipes, pagination, err := h.recipes.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, types.ListRecipesResponse{
		Data:       recipes,
		Pagination: pagination,
	})
}

// GetRecipe returns one recipe by slug.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipeBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, types.RecipeResponse{Data: recipe})
}

// CreateRecipe stores a submitted recipe document. Only the title is
// required; malformed optional fields fall back to their defaults.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if title, _ := normalize.String(doc["title"]); strings.TrimSpace(title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID.String(), doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, types.CreateRecipeResponse{
		ID:   recipe.ID.String(),
		Slug: recipe.Slug,
	})
}

// SaveRecipe bookmarks a recipe for the caller.
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	h.respondToMutation(c, h.recipes.SaveRecipe(c.Request.Context(), c.Param("slug"), userID.String()), "Recipe saved")
}

// UnsaveRecipe removes the caller's bookmark.
func (h *RecipeHandler) UnsaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	h.respondToMutation(c, h.recipes.UnsaveRecipe(c.Request.Context(), c.Param("slug"), userID.String()), "Recipe unsaved")
}

// LikeRecipe increments a recipe's like counter.
func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	h.respondToMutation(c, h.recipes.LikeRecipe(c.Request.Context(), c.Param("slug")), "Recipe liked")
}

// UnlikeRecipe decrements a recipe's like counter.
func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	h.respondToMutation(c, h.recipes.UnlikeRecipe(c.Request.Context(), c.Param("slug")), "Recipe unliked")
}

func (h *RecipeHandler) respondToMutation(c *gin.Context, err error, message string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": message})
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// queryNumber parses a float query parameter, returning 0 (ignored) when
// absent or malformed.
func queryNumber(c *gin.Context, key string) float64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return n
}

// queryInt parses an int query parameter, returning 0 (use default) when
// absent or malformed.
func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
