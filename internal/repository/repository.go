package repository

import (
	"context"

	"github.com/sakif/recipes-api/internal/model"
)

// RecipeRepository is the storage contract for recipes.
//
// Ids arrive from URL paths, so lookups take the raw string and let the storage
// engine coerce it. Create assigns the integer id on the passed recipe.
//
// Update and Delete report how many rows they touched instead of returning
// NotFound; callers decide whether zero is an error.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	Update(ctx context.Context, id string, recipe *model.Recipe) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}
