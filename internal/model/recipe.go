// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages
// but without inheritance.
package model

import "time"

// RequiredFields is the list of fields every create and update request must carry,
// in the order clients expect to see them in error responses.
var RequiredFields = []string{"title", "making_time", "serves", "ingredients", "cost"}

// Recipe represents one row of the recipes table.
//
// The `json:"..."` tags use snake_case because that is the wire format existing
// clients of this API already speak (e.g. "making_time", not "makingTime").
//
// MakingTime and Serves are free-form text ("45 minutes", "4 people"), not numbers.
// Ingredients is a comma-separated list kept as a single string.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	MakingTime  string    `json:"making_time"`
	Serves      string    `json:"serves"`
	Ingredients string    `json:"ingredients"`
	Cost        int       `json:"cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeInput is the request body for creating or replacing a recipe.
//
// VALIDATION TAGS:
// `validate:"required"` is read by go-playground/validator. For strings it rejects "",
// for ints it rejects 0. That matches the "every field must be truthy" rule exactly,
// including the quirk that a cost of 0 counts as missing.
//
// A JSON null decodes to the zero value, so null is also treated as missing.
type RecipeInput struct {
	Title       string `json:"title"       validate:"required"`
	MakingTime  string `json:"making_time" validate:"required"`
	Serves      string `json:"serves"      validate:"required"`
	Ingredients string `json:"ingredients" validate:"required"`
	Cost        int    `json:"cost"        validate:"required"`
}

// Apply copies the input's fields onto r. It never touches ID or the timestamps.
func (in RecipeInput) Apply(r *Recipe) {
	r.Title = in.Title
	r.MakingTime = in.MakingTime
	r.Serves = in.Serves
	r.Ingredients = in.Ingredients
	r.Cost = in.Cost
}
