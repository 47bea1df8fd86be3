package mocks

import (
	"context"

	"cookbook/internal/model"
	"cookbook/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository is a testify mock of repository.RecipeStore.
// WithinTx records the call and, unless an error is configured, runs fn against the mock itself.
type MockRecipeRepository struct {
	mock.Mock
}

var _ repository.RecipeStore = (*MockRecipeRepository)(nil)

func (m *MockRecipeRepository) WithinTx(ctx context.Context, fn func(repo repository.RecipeRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockRecipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, in model.RecipeCreate) (*model.Recipe, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) IncrementViews(ctx context.Context, id int64) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}
