package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cookio/cookio/backend/internal/model"
	"github.com/cookio/cookio/backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Recipe{}))
	return db
}

func TestCreateRecipeDefaults(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, "user-1", model.Document{
		"title": "Spicy Thai Basil Chicken!",
	})
	require.NoError(t, err)
	assert.Equal(t, "spicy-thai-basil-chicken", rec.Slug)
	assert.Equal(t, "medium", rec.Difficulty)
	assert.Equal(t, 0, rec.TotalTime)

	got, err := svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, rec.ID.String(), got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Spicy Thai Basil Chicken!", got.Title)
	assert.Equal(t, "medium", got.Difficulty)
	assert.Equal(t, 1, got.Servings)
	assert.Equal(t, 0, got.TotalTime)
	assert.Equal(t, 0, got.Likes)
	assert.Empty(t, got.SavedBy)
	assert.Empty(t, got.Ingredients)
	assert.Empty(t, got.Instructions)
	assert.NotEmpty(t, got.ImageURL)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestCreateRecipeCanonicalizes(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, "user-1", model.Document{
		"title":      "  Weeknight Pad Thai  ",
		"difficulty": "EXTREME",
		"prepTime":   "15",
		"cookTime":   10.0,
		"servings":   -3.0,
		"categories": []any{"Dinner", "  THAI ", ""},
		"nutrition": map[string]any{
			"calories": "450",
			"protein":  -5.0,
		},
		"ingredients": []any{
			map[string]any{"name": "Rice Noodles", "amount": 200.0, "unit": "g"},
			"not an object",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "weeknight-pad-thai", rec.Slug)
	assert.Equal(t, "Weeknight Pad Thai", rec.Title)
	assert.Equal(t, "medium", rec.Difficulty)
	assert.Equal(t, 25, rec.TotalTime) // prep + cook when totalTime is absent
	assert.Equal(t, 450.0, rec.Calories)
	assert.Equal(t, "|dinner|thai|", rec.CategoriesText)
	assert.Equal(t, "rice noodles", rec.IngredientNames)

	got, err := svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Servings)
	assert.Equal(t, 15, got.PrepTime)
	assert.Equal(t, 10, got.CookTime)
	assert.Equal(t, 25, got.TotalTime)
	assert.Equal(t, []string{"dinner", "thai"}, got.Categories)
	assert.Equal(t, 450.0, got.Nutrition.Calories)
	assert.Equal(t, 0.0, got.Nutrition.Protein)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Rice Noodles", got.Ingredients[0].Name)
	assert.Equal(t, 200.0, got.Ingredients[0].Amount)
	assert.Equal(t, "g", got.Ingredients[0].Unit)
	assert.Equal(t, "", got.Ingredients[1].Name)
}

func TestCreateRecipeRejectsEmptyTitle(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	_, err := svc.CreateRecipe(context.Background(), "user-1", model.Document{
		"title": "   ",
	})
	assert.Error(t, err)
}

func TestCreateRecipeDuplicateSlug(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, "user-1", model.Document{"title": "Pho"})
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, "user-2", model.Document{"title": "Pho"})
	assert.Error(t, err)
}

func TestGetRecipeBySlugNotFound(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	_, err := svc.GetRecipeBySlug(context.Background(), "no-such-recipe")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

// seedRecipe creates a recipe and pins its created_at so list ordering is
// deterministic.
func seedRecipe(t *testing.T, db *gorm.DB, svc *RecipeService, userID string, doc model.Document, createdAt time.Time) *model.Recipe {
	t.Helper()
	rec, err := svc.CreateRecipe(context.Background(), userID, doc)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Recipe{}).
		Where("id = ?", rec.ID).
		UpdateColumn("created_at", createdAt).Error)
	return rec
}

func TestListRecipesPaginationWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// 25 matching recipes plus two that miss the filter.
	for i := 1; i <= 25; i++ {
		seedRecipe(t, db, svc, "user-1", model.Document{
			"title":      fmt.Sprintf("Easy Meal %02d", i),
			"difficulty": "easy",
			"totalTime":  20.0,
		}, base.Add(time.Duration(i)*time.Minute))
	}
	seedRecipe(t, db, svc, "user-1", model.Document{
		"title":      "Hard Meal",
		"difficulty": "hard",
		"totalTime":  20.0,
	}, base.Add(30*time.Minute))
	seedRecipe(t, db, svc, "user-1", model.Document{
		"title":      "Slow Easy Meal",
		"difficulty": "easy",
		"totalTime":  90.0,
	}, base.Add(31*time.Minute))

	recipes, page, err := svc.ListRecipes(ctx, RecipeFilter{
		Difficulty: "easy",
		MaxTime:    30,
		Page:       2,
		Limit:      10,
	})
	require.NoError(t, err)

	assert.Equal(t, types.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, page)
	require.Len(t, recipes, 10)
	// Newest first: page 2 holds recipes 15 down to 6.
	assert.Equal(t, "Easy Meal 15", recipes[0].Title)
	assert.Equal(t, "Easy Meal 06", recipes[9].Title)

	recipes, page, err = svc.ListRecipes(ctx, RecipeFilter{
		Difficulty: "easy",
		MaxTime:    30,
		Page:       3,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Len(t, recipes, 5)
	assert.Equal(t, 3, page.Page)
}

func TestListRecipesDefaultsAndEmpty(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	recipes, page, err := svc.ListRecipes(context.Background(), RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Equal(t, types.Pagination{Page: 1, Limit: 12, Total: 0, TotalPages: 1}, page)
}

func TestListRecipesSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	seedRecipe(t, db, svc, "user-1", model.Document{
		"title": "Green Curry",
		"ingredients": []any{
			map[string]any{"name": "Thai Basil"},
		},
	}, base)
	seedRecipe(t, db, svc, "user-1", model.Document{
		"title":       "Tomato Soup",
		"description": "A basil-forward classic.",
	}, base.Add(time.Minute))
	seedRecipe(t, db, svc, "user-1", model.Document{
		"title": "Plain Rice",
	}, base.Add(2*time.Minute))

	recipes, page, err := svc.ListRecipes(ctx, RecipeFilter{Search: "BASIL"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Tomato Soup", recipes[0].Title)
	assert.Equal(t, "Green Curry", recipes[1].Title)
}

func TestListRecipesCategoryAndUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	mine := seedRecipe(t, db, svc, "user-1", model.Document{
		"title":      "Breakfast Burrito",
		"categories": []any{"Breakfast"},
	}, base)
	seedRecipe(t, db, svc, "user-2", model.Document{
		"title":      "Dinner Burrito",
		"categories": []any{"Dinner"},
	}, base.Add(time.Minute))

	recipes, _, err := svc.ListRecipes(ctx, RecipeFilter{Category: "breakfast"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Breakfast Burrito", recipes[0].Title)

	// "all" disables the category constraint.
	_, page, err := svc.ListRecipes(ctx, RecipeFilter{Category: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	recipes, _, err = svc.ListRecipes(ctx, RecipeFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, mine.Slug, recipes[0].Slug)

	// Unknown author matches nothing instead of falling back to all rows.
	_, page, err = svc.ListRecipes(ctx, RecipeFilter{UserID: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestListRecipesSavedFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	saved := seedRecipe(t, db, svc, "user-2", model.Document{"title": "Ramen"}, base)
	seedRecipe(t, db, svc, "user-2", model.Document{"title": "Udon"}, base.Add(time.Minute))
	require.NoError(t, svc.SaveRecipe(ctx, saved.Slug, "user-1"))

	recipes, _, err := svc.ListRecipes(ctx, RecipeFilter{UserID: "user-1", Saved: true})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, saved.Slug, recipes[0].Slug)
	assert.Equal(t, []string{"user-1"}, recipes[0].SavedBy)
}

func TestListRecipesInvalidNumbersIgnored(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	seedRecipe(t, db, svc, "user-1", model.Document{"title": "Stew", "totalTime": 120.0}, base)

	for _, f := range []RecipeFilter{
		{MaxTime: -5},
		{MaxCalories: -1},
		{Page: -3, Limit: 0},
	} {
		_, page, err := svc.ListRecipes(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	}
}

func TestPageInfo(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range tests {
		got := PageInfo(1, tc.limit, tc.total)
		assert.Equal(t, tc.pages, got.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestSaveAndUnsaveRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, "user-1", model.Document{"title": "Bibimbap"})
	require.NoError(t, err)

	require.NoError(t, svc.SaveRecipe(ctx, rec.Slug, "user-2"))
	require.NoError(t, svc.SaveRecipe(ctx, rec.Slug, "user-2")) // idempotent
	require.NoError(t, svc.SaveRecipe(ctx, rec.Slug, "user-3"))

	got, err := svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-2", "user-3"}, got.SavedBy)

	require.NoError(t, svc.UnsaveRecipe(ctx, rec.Slug, "user-2"))
	require.NoError(t, svc.UnsaveRecipe(ctx, rec.Slug, "user-2"))

	got, err = svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-3"}, got.SavedBy)

	assert.ErrorIs(t, svc.SaveRecipe(ctx, "no-such-recipe", "user-1"), ErrRecipeNotFound)
}

func TestLikeAndUnlikeRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	rec, err := svc.CreateRecipe(ctx, "user-1", model.Document{"title": "Gnocchi"})
	require.NoError(t, err)

	require.NoError(t, svc.LikeRecipe(ctx, rec.Slug))
	require.NoError(t, svc.LikeRecipe(ctx, rec.Slug))

	got, err := svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)

	require.NoError(t, svc.UnlikeRecipe(ctx, rec.Slug))
	require.NoError(t, svc.UnlikeRecipe(ctx, rec.Slug))
	require.NoError(t, svc.UnlikeRecipe(ctx, rec.Slug)) // floored at zero

	got, err = svc.GetRecipeBySlug(ctx, rec.Slug)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)

	assert.ErrorIs(t, svc.LikeRecipe(ctx, "no-such-recipe"), ErrRecipeNotFound)
}
