package model

// Recipe is a stored catalog entry.
// Views is only ever changed by fetching the recipe by its ID.
type Recipe struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Views        int    `json:"views"`
	CookingTime  int    `json:"cooking_time"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// RecipeCreate is the client-supplied input for a new recipe. ID is assigned by the database.
type RecipeCreate struct {
	Title        string `json:"title"`
	Views        int    `json:"views"`
	CookingTime  int    `json:"cooking_time"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

// Validate checks the constraints that hold regardless of how the input was decoded.
func (in RecipeCreate) Validate() error {
	var errs ValidationErrors
	if fe := checkTitle(in.Title); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := checkViews(in.Views); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
