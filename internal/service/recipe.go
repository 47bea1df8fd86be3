package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cookbook/internal/model"
	"cookbook/internal/repository"
	"cookbook/internal/storage"
)

var (
	ErrNotFound       = errors.New("recipe not found")
	ErrExportDisabled = errors.New("catalog export is not configured")
)

// RecipeService defines the use cases for the recipe catalog.
type RecipeService interface {
	// List returns every recipe, most viewed first, quicker recipes first among equals.
	List(ctx context.Context) ([]model.Recipe, error)

	// Get returns a recipe by ID after incrementing its view counter by one.
	// A missing recipe yields ErrNotFound and leaves the catalog untouched.
	Get(ctx context.Context, id int64) (*model.Recipe, error)

	// Create validates and stores a new recipe.
	Create(ctx context.Context, in model.RecipeCreate) (*model.Recipe, error)

	// Export writes a JSON snapshot of the catalog to object storage.
	Export(ctx context.Context) (*ExportResult, error)
}

// Option customizes a RecipeService.
type Option func(*recipeService)

// WithExportURLTTL sets how long presigned export links remain valid.
func WithExportURLTTL(d time.Duration) Option {
	return func(s *recipeService) {
		if d > 0 {
			s.exportTTL = d
		}
	}
}

// WithClock overrides the time source used to name exports.
func WithClock(now func() time.Time) Option {
	return func(s *recipeService) {
		s.now = now
	}
}

type recipeService struct {
	repo      repository.RecipeStore
	store     storage.Storage
	metrics   *Metrics
	exportTTL time.Duration
	now       func() time.Time
}

// NewRecipeService constructs a RecipeService. store and metrics may be nil:
// without a store Export returns ErrExportDisabled.
func NewRecipeService(repo repository.RecipeStore, store storage.Storage, metrics *Metrics, opts ...Option) RecipeService {
	s := &recipeService{
		repo:      repo,
		store:     store,
		metrics:   metrics,
		exportTTL: 15 * time.Minute,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *recipeService) List(ctx context.Context) ([]model.Recipe, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return items, nil
}

func (s *recipeService) Get(ctx context.Context, id int64) (*model.Recipe, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	var out *model.Recipe
	err := s.repo.WithinTx(ctx, func(repo repository.RecipeRepository) error {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}
		rec, err := repo.IncrementViews(ctx, id)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}

	s.metrics.recipeViewed()
	return out, nil
}

func (s *recipeService) Create(ctx context.Context, in model.RecipeCreate) (*model.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var out *model.Recipe
	err := s.repo.WithinTx(ctx, func(repo repository.RecipeRepository) error {
		rec, err := repo.Create(ctx, in)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.metrics.recipeCreated()
	return out, nil
}
