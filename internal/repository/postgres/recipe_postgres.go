package postgres

import (
	"context"
	"database/sql"

	"cookbook/internal/database"
	"cookbook/internal/model"
	"cookbook/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecipePostgres is a PostgreSQL implementation of repository.RecipeStore.
// It uses database/sql with parameterized queries and contains no business logic.
type RecipePostgres struct {
	db *sql.DB
	q  querier
}

// NewRecipePostgres creates a repository running each call on its own pooled connection.
func NewRecipePostgres(db *sql.DB) *RecipePostgres {
	return &RecipePostgres{db: db, q: db}
}

var _ repository.RecipeStore = (*RecipePostgres)(nil)

const recipeColumns = `id, title, views, cooking_time, ingredients, instructions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*model.Recipe, error) {
	var r model.Recipe
	if err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Views,
		&r.CookingTime,
		&r.Ingredients,
		&r.Instructions,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// WithinTx runs fn with a repository bound to a fresh transaction.
func (r *RecipePostgres) WithinTx(ctx context.Context, fn func(repo repository.RecipeRepository) error) error {
	return database.WithinTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&RecipePostgres{db: r.db, q: tx})
	})
}

// List returns all recipes, most viewed first; quicker recipes win ties.
func (r *RecipePostgres) List(ctx context.Context) ([]model.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		ORDER BY views DESC, cooking_time ASC, id ASC
	`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single recipe by its ID.
func (r *RecipePostgres) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE id = $1
	`
	return scanRecipe(r.q.QueryRowContext(ctx, q, id))
}

// Create inserts a recipe row and returns it with the generated ID.
func (r *RecipePostgres) Create(ctx context.Context, in model.RecipeCreate) (*model.Recipe, error) {
	const q = `
		INSERT INTO recipes (title, views, cooking_time, ingredients, instructions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + recipeColumns
	return scanRecipe(r.q.QueryRowContext(ctx, q,
		in.Title,
		in.Views,
		in.CookingTime,
		in.Ingredients,
		in.Instructions,
	))
}

// IncrementViews bumps the counter in a single statement so concurrent fetches never lose an update.
func (r *RecipePostgres) IncrementViews(ctx context.Context, id int64) (*model.Recipe, error) {
	const q = `
		UPDATE recipes
		SET views = views + 1
		WHERE id = $1
		RETURNING ` + recipeColumns
	return scanRecipe(r.q.QueryRowContext(ctx, q, id))
}
