package repository

import (
	"context"

	"cookbook/internal/model"
)

// RecipeRepository defines data access for recipes using SQL queries only.
// Lookups of a missing row return sql.ErrNoRows.
type RecipeRepository interface {
	// List returns every recipe ordered by views descending, then cooking_time ascending.
	List(ctx context.Context) ([]model.Recipe, error)

	// FindByID returns a recipe by its ID.
	FindByID(ctx context.Context, id int64) (*model.Recipe, error)

	// Create inserts a new recipe and returns the stored row including its generated ID.
	Create(ctx context.Context, in model.RecipeCreate) (*model.Recipe, error)

	// IncrementViews atomically adds one to the views counter and returns the updated row.
	IncrementViews(ctx context.Context, id int64) (*model.Recipe, error)
}

// Transactor scopes a unit of work to a single transaction.
// fn receives a repository bound to that transaction; returning an error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo RecipeRepository) error) error
}

// RecipeStore is a RecipeRepository that can also open transactions.
type RecipeStore interface {
	RecipeRepository
	Transactor
}
