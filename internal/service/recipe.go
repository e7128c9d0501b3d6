package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cookio/cookio/backend/internal/model"
	"github.com/cookio/cookio/backend/internal/normalize"
	"github.com/cookio/cookio/backend/internal/slug"
	"github.com/cookio/cookio/backend/internal/types"
)

// ErrRecipeNotFound is returned when a slug matches no recipe.
var ErrRecipeNotFound = errors.New("recipe not found")

// Pagination defaults for the list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// RecipeService handles recipe operations.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter carries the optional list parameters. The zero value of a
// field means the constraint is absent; invalid or non-positive numeric
// parameters are ignored rather than treated as errors.
type RecipeFilter struct {
	Search      string
	Category    string
	Difficulty  string
	MaxTime     float64
	MaxCalories float64
	UserID      string
	Saved       bool
	Page        int
	Limit       int
}

// Apply chains the filter's conditions onto a recipe query.
func (f RecipeFilter) Apply(q *gorm.DB) *gorm.DB {
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR ingredient_names LIKE ?",
			like, like, like)
	}

	if category := strings.ToLower(strings.TrimSpace(f.Category)); category != "" && category != "all" {
		q = q.Where("categories_text LIKE ?", "%|"+category+"|%")
	}

	if difficulty := strings.ToLower(strings.TrimSpace(f.Difficulty)); difficulty != "" && difficulty != "all" {
		q = q.Where("difficulty = ?", difficulty)
	}

	if f.MaxTime > 0 && !math.IsInf(f.MaxTime, 1) {
		q = q.Where("total_time <= ?", f.MaxTime)
	}

	if f.MaxCalories > 0 && !math.IsInf(f.MaxCalories, 1) {
		q = q.Where("calories <= ?", f.MaxCalories)
	}

	if userID := strings.TrimSpace(f.UserID); userID != "" {
		if f.Saved {
			q = q.Where("saved_by_text LIKE ?", "%|"+userID+"|%")
		} else {
			q = q.Where("user_id = ?", userID)
		}
	}

	return q
}

// withDefaults fills in the pagination window.
func (f RecipeFilter) withDefaults() RecipeFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// PageInfo computes the pagination block for a result window. totalPages
// is at least 1 even for an empty result.
func PageInfo(page, limit int, total int64) types.Pagination {
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}
	return types.Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// ListRecipes returns one page of normalized recipes matching the filter,
// newest first, plus the pagination block. The total is counted over the
// same predicate, independently of the page slice.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]types.Recipe, types.Pagination, error) {
	filter = filter.withDefaults()

	var total int64
	if err := filter.Apply(s.db.WithContext(ctx).Model(&model.Recipe{})).Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("counting recipes: %w", err)
	}

	var rows []model.Recipe
	err := filter.Apply(s.db.WithContext(ctx).Model(&model.Recipe{})).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, types.Pagination{}, fmt.Errorf("fetching recipes: %w", err)
	}

	views := make([]types.Recipe, len(rows))
	for i := range rows {
		views[i] = s.view(&rows[i], i)
	}
	return views, PageInfo(filter.Page, filter.Limit, total), nil
}

// GetRecipeBySlug retrieves one normalized recipe.
func (s *RecipeService) GetRecipeBySlug(ctx context.Context, recipeSlug string) (types.Recipe, error) {
	var rec model.Recipe
	if err := s.db.WithContext(ctx).First(&rec, "slug = ?", recipeSlug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Recipe{}, ErrRecipeNotFound
		}
		return types.Recipe{}, fmt.Errorf("fetching recipe %q: %w", recipeSlug, err)
	}
	return s.view(&rec, 0), nil
}

// CreateRecipe canonicalizes the submitted document, derives the envelope
// columns, and inserts the recipe. Malformed optional fields are replaced
// with their defaults; title is the only field the store itself rejects.
// A colliding slug fails the insert via the unique index — no retry.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID string, doc model.Document) (*model.Recipe, error) {
	if doc == nil {
		doc = model.Document{}
	}

	title, _ := normalize.String(doc["title"])
	title = strings.TrimSpace(title)
	description, _ := normalize.String(doc["description"])
	imageURL, _ := normalize.String(doc["imageUrl"])
	difficulty := normalize.Difficulty(doc["difficulty"])

	prep := clamp(normalize.Number(doc["prepTime"], 0))
	cook := clamp(normalize.Number(doc["cookTime"], 0))
	total := clamp(normalize.Number(doc["totalTime"], prep+cook))

	servings := normalize.Number(doc["servings"], 1)
	if servings < 1 {
		servings = 1
	}

	categories := lowercaseTags(normalize.Tags(doc["categories"]))
	instructions := normalize.Instructions(doc["instructions"])
	nutritionSource, _ := doc["nutrition"].(map[string]any)
	nutrition := model.Document{
		"calories": clamp(normalize.Number(nutritionSource["calories"], 0)),
		"protein":  clamp(normalize.Number(nutritionSource["protein"], 0)),
		"carbs":    clamp(normalize.Number(nutritionSource["carbs"], 0)),
		"fat":      clamp(normalize.Number(nutritionSource["fat"], 0)),
	}

	recipeSlug := slug.Make(title)

	ingredients := make([]model.Document, 0)
	names := make([]string, 0)
	for _, ing := range normalize.Ingredients(doc["ingredients"], recipeSlug) {
		ingredients = append(ingredients, model.Document{
			"name":   ing.Name,
			"amount": ing.Amount,
			"unit":   ing.Unit,
		})
		if ing.Name != "" {
			names = append(names, strings.ToLower(ing.Name))
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stored := model.Document{
		"userId":       userID,
		"slug":         recipeSlug,
		"title":        title,
		"description":  description,
		"imageUrl":     imageURL,
		"categories":   categories,
		"difficulty":   difficulty,
		"prepTime":     prep,
		"cookTime":     cook,
		"totalTime":    total,
		"servings":     servings,
		"nutrition":    nutrition,
		"ingredients":  ingredients,
		"instructions": instructions,
		"likes":        0,
		"savedBy":      []string{},
		"createdAt":    now,
		"updatedAt":    now,
	}

	rec := &model.Recipe{
		UserID:          userID,
		Slug:            recipeSlug,
		Title:           title,
		Description:     description,
		Difficulty:      difficulty,
		TotalTime:       int(total),
		Calories:        nutrition["calories"].(float64),
		IngredientNames: strings.Join(names, "\n"),
		CategoriesText:  model.JoinTags(categories),
		Doc:             stored,
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}
	return rec, nil
}

// SaveRecipe bookmarks a recipe for a user. Saving twice is a no-op.
func (s *RecipeService) SaveRecipe(ctx context.Context, recipeSlug, userID string) error {
	return s.updateSavedBy(ctx, recipeSlug, func(savedBy []string) []string {
		if slices.Contains(savedBy, userID) {
			return savedBy
		}
		return append(savedBy, userID)
	})
}

// UnsaveRecipe removes a user's bookmark. Removing an absent bookmark is
// a no-op.
func (s *RecipeService) UnsaveRecipe(ctx context.Context, recipeSlug, userID string) error {
	return s.updateSavedBy(ctx, recipeSlug, func(savedBy []string) []string {
		return slices.DeleteFunc(savedBy, func(id string) bool { return id == userID })
	})
}

func (s *RecipeService) updateSavedBy(ctx context.Context, recipeSlug string, update func([]string) []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec model.Recipe
		if err := tx.First(&rec, "slug = ?", recipeSlug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("fetching recipe %q: %w", recipeSlug, err)
		}

		savedBy := update(model.SplitTags(rec.SavedByText))
		if rec.Doc == nil {
			rec.Doc = model.Document{}
		}
		rec.Doc["savedBy"] = savedBy
		rec.Doc["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

		err := tx.Model(&rec).Updates(map[string]any{
			"saved_by_text": model.JoinTags(savedBy),
			"doc":           rec.Doc,
		}).Error
		if err != nil {
			return fmt.Errorf("updating recipe %q: %w", recipeSlug, err)
		}
		return nil
	})
}

// LikeRecipe increments the like counter.
func (s *RecipeService) LikeRecipe(ctx context.Context, recipeSlug string) error {
	return s.adjustLikes(ctx, recipeSlug, gorm.Expr("likes + 1"))
}

// UnlikeRecipe decrements the like counter, floored at zero.
func (s *RecipeService) UnlikeRecipe(ctx context.Context, recipeSlug string) error {
	return s.adjustLikes(ctx, recipeSlug, gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END"))
}

func (s *RecipeService) adjustLikes(ctx context.Context, recipeSlug string, expr any) error {
	res := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("slug = ?", recipeSlug).
		Update("likes", expr)
	if res.Error != nil {
		return fmt.Errorf("updating likes for %q: %w", recipeSlug, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// view normalizes the stored document and overlays the fields the
// envelope is authoritative for.
func (s *RecipeService) view(rec *model.Recipe, index int) types.Recipe {
	v := normalize.Recipe(rec.Doc, index)
	if rec.ID != uuid.Nil {
		v.ID = rec.ID.String()
	}
	if rec.Slug != "" {
		v.Slug = rec.Slug
	}
	if rec.UserID != "" {
		v.UserID = rec.UserID
	}
	if rec.Likes > 0 {
		v.Likes = rec.Likes
	}
	if rec.SavedByText != "" {
		v.SavedBy = model.SplitTags(rec.SavedByText)
	}
	if !rec.CreatedAt.IsZero() {
		v.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		v.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func clamp(n float64) float64 {
	if n < 0 {
		return 0
	}
	return n
}

func lowercaseTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
