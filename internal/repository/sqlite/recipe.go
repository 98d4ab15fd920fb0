package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/recipes-api/internal/apperror"
	"github.com/sakif/recipes-api/internal/model"
	"github.com/sakif/recipes-api/internal/repository"
)

// Compile-time check that *DB implements repository.RecipeRepository.
var _ repository.RecipeRepository = (*DB)(nil)

const selectRecipeColumns = `SELECT id, title, making_time, serves, ingredients, cost, created_at, updated_at
		 FROM recipes`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s rowScanner, r *model.Recipe) error {
	return s.Scan(
		&r.ID,
		&r.Title,
		&r.MakingTime,
		&r.Serves,
		&r.Ingredients,
		&r.Cost,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

// now returns the current time in UTC without the monotonic clock reading,
// so values survive a round trip through the database unchanged.
func now() time.Time {
	return time.Now().UTC()
}

// Create inserts a new recipe.
//
// ATOMIC CREATE:
// Both timestamps are chosen here and written by the same INSERT, and the id comes
// back from LastInsertId on the same result. No second SELECT is needed to learn
// what was stored, so there is no window for another writer to sneak in between.
//
// After Create returns, recipe.ID, CreatedAt and UpdatedAt are populated.
func (db *DB) Create(ctx context.Context, recipe *model.Recipe) error {
	ts := now()
	recipe.CreatedAt = ts
	recipe.UpdatedAt = ts

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO recipes (title, making_time, serves, ingredients, cost, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		recipe.Title,
		recipe.MakingTime,
		recipe.Serves,
		recipe.Ingredients,
		recipe.Cost,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new recipe id: %w", err)
	}
	recipe.ID = id

	return nil
}

// GetByID retrieves a single recipe.
//
// The id is bound exactly as received. The id column has INTEGER affinity, so SQLite
// converts numeric-looking text ("7") before comparing and anything else ("abc")
// simply matches nothing. sql.ErrNoRows is translated to apperror.NotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe

	err := scanRecipe(db.conn.QueryRowContext(ctx,
		selectRecipeColumns+`
		 WHERE id = ?`,
		id,
	), &recipe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("recipe", id)
		}
		return nil, fmt.Errorf("sqlite: getting recipe %s: %w", id, err)
	}

	return &recipe, nil
}

// List returns every recipe in id order. There is no pagination.
func (db *DB) List(ctx context.Context) ([]model.Recipe, error) {
	rows, err := db.conn.QueryContext(ctx, selectRecipeColumns+`
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recipes: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	recipes := make([]model.Recipe, 0)

	for rows.Next() {
		var r model.Recipe
		if err := scanRecipe(rows, &r); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe row: %w", err)
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recipes: %w", err)
	}

	return recipes, nil
}

// Update overwrites all five user-editable fields of the recipe with the given id
// and bumps updated_at. id and created_at are never written.
//
// It returns the number of rows affected. Zero is NOT an error here: the caller
// decides what an update of a missing row means.
func (db *DB) Update(ctx context.Context, id string, recipe *model.Recipe) (int64, error) {
	recipe.UpdatedAt = now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE recipes
		 SET title = ?, making_time = ?, serves = ?, ingredients = ?, cost = ?, updated_at = ?
		 WHERE id = ?`,
		recipe.Title,
		recipe.MakingTime,
		recipe.Serves,
		recipe.Ingredients,
		recipe.Cost,
		recipe.UpdatedAt,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating recipe %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Delete removes the recipe with the given id and returns the number of rows removed.
func (db *DB) Delete(ctx context.Context, id string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ?`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting recipe %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Count returns the number of stored recipes.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting recipes: %w", err)
	}
	return n, nil
}
