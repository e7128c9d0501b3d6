package types

// Recipe is the normalized recipe view returned by every read endpoint.
// Field names follow the document format the frontend consumes.
type Recipe struct {
	ID           string       `json:"id"`
	Slug         string       `json:"slug"`
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"imageUrl"`
	Categories   []string     `json:"categories"`
	Difficulty   string       `json:"difficulty"`
	PrepTime     int          `json:"prepTime"`
	CookTime     int          `json:"cookTime"`
	TotalTime    int          `json:"totalTime"`
	Servings     int          `json:"servings"`
	Nutrition    Nutrition    `json:"nutrition"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Likes        int          `json:"likes"`
	SavedBy      []string     `json:"savedBy"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

// Ingredient is a single entry of a recipe's ordered ingredient list.
type Ingredient struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Nutrition holds the per-recipe nutrition facts.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Pagination describes the window returned by the list endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}
