package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses.
//
// RESPONSE SHAPES:
// Existing clients expect a "message" field on every non-list response and, for
// failed writes, a "required" field naming the mandatory inputs:
//
//	{"message": "Recipe creation failed!", "required": "title, making_time, serves, ingredients, cost"}
//
// Internal error details (SQL, file paths) are logged, never sent.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/recipes-api/internal/model"
)

// Fixed client-facing messages.
const (
	msgCreated      = "Recipe successfully created!"
	msgCreateFailed = "Recipe creation failed!"
	msgListFailed   = "Failed to fetch recipes!"
	msgDetails      = "Recipe details by id"
	msgNotFound     = "No Recipe found"
	msgGetFailed    = "Failed to fetch recipe"
	msgUpdated      = "Recipe successfully updated!"
	msgRemoved      = "Recipe successfully removed!"
	msgInternal     = "An internal error occurred"
)

// requiredFieldsList is the value of the "required" field on failed writes.
var requiredFieldsList = strings.Join(model.RequiredFields, ", ")

// MessageResponse is the body of every response that only carries a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteFailedResponse is returned when a create or update is rejected.
type WriteFailedResponse struct {
	Message  string `json:"message"`
	Required string `json:"required"`
}

// RecipeListResponse is the body of a successful create or update. The single
// recipe is wrapped in a list; a nil entry encodes as null.
type RecipeListResponse struct {
	Message string          `json:"message"`
	Recipe  []*model.Recipe `json:"recipe"`
}

// RecipeResponse is the body of a successful get-by-id.
type RecipeResponse struct {
	Message string        `json:"message"`
	Recipe  *model.Recipe `json:"recipe"`
}

// RecipesResponse is the body of a successful list.
type RecipesResponse struct {
	Recipes []model.Recipe `json:"recipes"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and the status code must be written before the body. Once Encode
// writes the first byte, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// writeCreateFailed sends the 400 used for every rejected create AND update.
// Update reuses the create wording; clients match on this exact text.
func writeCreateFailed(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, WriteFailedResponse{
		Message:  msgCreateFailed,
		Required: requiredFieldsList,
	})
}
