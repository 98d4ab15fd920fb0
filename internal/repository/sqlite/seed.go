package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/recipes-api/internal/model"
)

// SeedRecipes are the sample rows written by Reset. They always receive ids 1 and 2,
// because dropping an AUTOINCREMENT table also drops its sqlite_sequence counter.
var SeedRecipes = []model.RecipeInput{
	{Title: "チキンカレー", MakingTime: "45分", Serves: "4人", Ingredients: "玉ねぎ,肉,スパイス", Cost: 1000},
	{Title: "オムライス", MakingTime: "30分", Serves: "2人", Ingredients: "玉ねぎ,卵,スパイス,醤油", Cost: 700},
}

// Reset destroys every stored recipe and reseeds the table.
//
// DESTRUCTIVE ON PURPOSE:
// The service runs as an ephemeral demo: each start drops the table, recreates it and
// inserts SeedRecipes, so the store always begins in the same known state. Callers that
// want data to survive restarts simply don't call Reset (see config.ResetOnStart).
//
// TRANSACTIONS:
// All statements run in one transaction. If any of them fails, Rollback restores the
// previous table and no half-seeded state is ever visible.
func (db *DB) Reset(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning reset: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so deferring it is always safe.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS recipes`); err != nil {
		return fmt.Errorf("sqlite: dropping recipes table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, recipesTableDDL); err != nil {
		return fmt.Errorf("sqlite: creating recipes table: %w", err)
	}

	ts := now()
	for _, seed := range SeedRecipes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (title, making_time, serves, ingredients, cost, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seed.Title, seed.MakingTime, seed.Serves, seed.Ingredients, seed.Cost, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("sqlite: seeding recipe %q: %w", seed.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing reset: %w", err)
	}
	return nil
}
