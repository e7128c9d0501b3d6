package types

// CreateRecipeResponse echoes the identifiers assigned to a new recipe.
type CreateRecipeResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// ListRecipesResponse is the payload of the list endpoint.
type ListRecipesResponse struct {
	Data       []Recipe   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// RecipeResponse wraps a single recipe.
type RecipeResponse struct {
	Data Recipe `json:"data"`
}
