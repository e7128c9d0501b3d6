// Package normalize coerces loosely-typed recipe documents into the strict
// view model. The store applies no schema validation on reads, so partial
// and legacy documents can be missing fields or carry the wrong types;
// every field is defaulted independently.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cookio/cookio/backend/internal/types"
)

// FallbackImage replaces an empty or missing image URL.
const FallbackImage = "/placeholder.svg?height=600&width=1000&query=delicious food"

// DefaultDifficulty is substituted for a missing or invalid difficulty.
const DefaultDifficulty = "medium"

var difficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Recipe builds a fully-populated view from a stored document. index is the
// document's position in the result set, used only to synthesize an
// identifier when none of _id, id, or slug survives.
func Recipe(doc map[string]any, index int) types.Recipe {
	id, ok := String(doc["_id"])
	if !ok {
		id, ok = String(doc["id"])
	}
	if !ok {
		id, ok = String(doc["slug"])
	}
	if !ok {
		id = fmt.Sprintf("recipe-%d", index)
	}

	slug, ok := String(doc["slug"])
	if !ok {
		slug = id
	}

	title, ok := String(doc["title"])
	if !ok {
		title = "Untitled recipe"
	}
	description, _ := String(doc["description"])
	userID, _ := String(doc["userId"])

	imageURL, _ := String(doc["imageUrl"])
	if imageURL == "" {
		imageURL = FallbackImage
	}

	prep := nonNegative(Number(doc["prepTime"], 0))
	cook := nonNegative(Number(doc["cookTime"], 0))
	total := nonNegative(Number(doc["totalTime"], prep+cook))

	servings := Number(doc["servings"], 1)
	if servings < 1 {
		servings = 1
	}

	createdAt := DateString(doc["createdAt"], time.Now().UTC().Format(time.RFC3339))
	updatedAt := DateString(doc["updatedAt"], createdAt)

	nutrition, _ := doc["nutrition"].(map[string]any)

	return types.Recipe{
		ID:           id,
		Slug:         slug,
		UserID:       userID,
		Title:        title,
		Description:  description,
		ImageURL:     imageURL,
		Categories:   Tags(doc["categories"]),
		Difficulty:   Difficulty(doc["difficulty"]),
		PrepTime:     int(prep),
		CookTime:     int(cook),
		TotalTime:    int(total),
		Servings:     int(servings),
		Nutrition: types.Nutrition{
			Calories: nonNegative(Number(nutrition["calories"], 0)),
			Protein:  nonNegative(Number(nutrition["protein"], 0)),
			Carbs:    nonNegative(Number(nutrition["carbs"], 0)),
			Fat:      nonNegative(Number(nutrition["fat"], 0)),
		},
		Ingredients:  Ingredients(doc["ingredients"], id),
		Instructions: Instructions(doc["instructions"]),
		Likes:        int(nonNegative(Number(doc["likes"], 0))),
		SavedBy:      Tags(doc["savedBy"]),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// String extracts a usable string from an arbitrary document value.
// Numbers are stringified; maps and slices are the document analogue of a
// degenerate object-to-string conversion and are treated as absent.
func String(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return "", false
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return String(float64(s))
	case int:
		return strconv.Itoa(s), true
	case int32:
		return strconv.FormatInt(int64(s), 10), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case fmt.Stringer:
		return s.String(), true
	}
	return "", false
}

// Number parses a document value into a finite float64, falling back to
// def. Numeric strings parse; anything non-finite is treated as absent.
func Number(v any, def float64) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		n = parsed
	default:
		return def
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

// DateString coerces a date-like value into an ISO-8601 string. String
// input passes through, numeric input is an epoch timestamp in
// milliseconds, and anything else yields the fallback.
func DateString(v any, fallback string) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		if t != "" {
			return t
		}
	case float64, float32, int, int32, int64:
		ms := Number(t, math.NaN())
		if !math.IsNaN(ms) {
			return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
		}
	}
	return fallback
}

// Difficulty validates a document value against the difficulty enum,
// falling back to medium.
func Difficulty(v any) string {
	s, ok := String(v)
	if !ok {
		return DefaultDifficulty
	}
	s = strings.ToLower(s)
	if !difficulties[s] {
		return DefaultDifficulty
	}
	return s
}

// Tags filters a document sequence down to its non-empty strings.
func Tags(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// Instructions filters a document sequence down to its non-blank steps,
// trimmed, preserving order.
func Instructions(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	steps := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			steps = append(steps, trimmed)
		}
	}
	return steps
}

// Ingredients maps a document sequence to ingredient entries, synthesizing
// an id from the parent identifier where an entry has none.
func Ingredients(v any, parentID string) []types.Ingredient {
	items, ok := v.([]any)
	if !ok {
		return []types.Ingredient{}
	}
	out := make([]types.Ingredient, 0, len(items))
	for i, item := range items {
		entry, _ := item.(map[string]any)
		id, ok := String(entry["id"])
		if !ok {
			id = fmt.Sprintf("%s-ingredient-%d", parentID, i)
		}
		name, _ := String(entry["name"])
		unit, _ := String(entry["unit"])
		out = append(out, types.Ingredient{
			ID:     id,
			Name:   name,
			Amount: nonNegative(Number(entry["amount"], 0)),
			Unit:   unit,
		})
	}
	return out
}

func nonNegative(n float64) float64 {
	if n < 0 {
		return 0
	}
	return n
}
