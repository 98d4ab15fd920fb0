// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// RecipeService depends on repository.RecipeRepository (an interface), never on
// the sqlite package. Tests inject an in-memory mock instead.
package service

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/recipes-api/internal/apperror"
	"github.com/sakif/recipes-api/internal/model"
	"github.com/sakif/recipes-api/internal/repository"
)

// RecipeService handles business logic for recipes.
type RecipeService struct {
	repo     repository.RecipeRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRecipeService creates a new RecipeService.
//
// The validator reports field names from the `json` tag, so a missing MakingTime
// comes back as "making_time", the name the client actually sent.
func NewRecipeService(repo repository.RecipeRepository, logger *slog.Logger) *RecipeService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &RecipeService{
		repo:     repo,
		validate: v,
		logger:   logger,
	}
}

// checkRequired returns apperror.MissingField naming every falsy field of in,
// or nil when all five are present.
func (s *RecipeService) checkRequired(in model.RecipeInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.MissingField(model.RequiredFields...)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperror.MissingField(fields...)
}

// Initialize prepares storage at startup. With reset it drops all recipes and
// reseeds the sample rows; without it the existing table is left as is.
func (s *RecipeService) Initialize(ctx context.Context, reset bool) error {
	if !reset {
		s.logger.Info("keeping existing recipes; reset on start disabled")
		return nil
	}

	if err := s.repo.Reset(ctx); err != nil {
		s.logger.Error("failed to reset recipes table", slog.String("error", err.Error()))
		return apperror.StorageFailure("resetting recipes", err)
	}

	s.logger.Info("recipes table reset and seeded")
	return nil
}

// Create validates and stores a new recipe. The returned recipe carries the
// generated id and timestamps.
func (s *RecipeService) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{}
	in.Apply(recipe)

	if err := s.repo.Create(ctx, recipe); err != nil {
		s.logger.Error("failed to create recipe",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailure("creating recipe", err)
	}

	s.logger.Info("recipe created",
		slog.Int64("id", recipe.ID),
		slog.String("title", recipe.Title),
	)

	return recipe, nil
}

// List returns all recipes.
func (s *RecipeService) List(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list recipes", slog.String("error", err.Error()))
		return nil, apperror.StorageFailure("listing recipes", err)
	}
	return recipes, nil
}

// GetByID returns the recipe for id, apperror.ErrNotFound when there is none.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get recipe",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailure("getting recipe", err)
	}
	return recipe, nil
}

// Update replaces all five fields of the recipe with the given id and returns the
// stored result.
//
// FULL REPLACE:
// Every field must be present, even the ones that didn't change.
//
// MISSING ROWS:
// Updating an id that doesn't exist is not an error. The UPDATE touches nothing and
// the read-back finds nothing, so Update returns (nil, nil). Clients of this API
// have always received an empty record in that case.
func (s *RecipeService) Update(ctx context.Context, id string, in model.RecipeInput) (*model.Recipe, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{}
	in.Apply(recipe)

	affected, err := s.repo.Update(ctx, id, recipe)
	if err != nil {
		s.logger.Error("failed to update recipe",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StorageFailure("updating recipe", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("update matched no recipe", slog.String("id", id))
			return nil, nil
		}
		return nil, apperror.StorageFailure("reading updated recipe", err)
	}

	s.logger.Info("recipe updated",
		slog.String("id", id),
		slog.Int64("rows", affected),
	)

	return updated, nil
}

// Delete removes the recipe with the given id.
//
// The recipe is looked up first; a missing id returns apperror.ErrNotFound and the
// table is never touched.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete recipe",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return apperror.StorageFailure("deleting recipe", err)
	}

	s.logger.Info("recipe deleted", slog.String("id", id))
	return nil
}

// Ready reports whether storage is reachable.
func (s *RecipeService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
