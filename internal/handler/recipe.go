package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/recipes-api/internal/apperror"
	"github.com/sakif/recipes-api/internal/model"
	"github.com/sakif/recipes-api/internal/service"
)

// RecipeHandler serves the /recipes endpoints.
//
// DEPENDENCY CHAIN:
// The handler only knows HTTP. It decodes bodies, calls the service, and maps
// the service's errors to status codes and fixed messages. It never sees SQL.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// recipeRequest is the wire form of model.RecipeInput.
//
// json.Number accepts cost both as a number (1000) and as a numeric string
// ("1000"), which older clients send. Anything that isn't an integer is rejected.
type recipeRequest struct {
	Title       string      `json:"title"`
	MakingTime  string      `json:"making_time"`
	Serves      string      `json:"serves"`
	Ingredients string      `json:"ingredients"`
	Cost        json.Number `json:"cost"`
}

// decodeRecipeInput reads the request body into a model.RecipeInput.
// An absent or null cost becomes 0, which validation then reports as missing.
func decodeRecipeInput(r *http.Request) (model.RecipeInput, error) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.RecipeInput{}, err
	}

	in := model.RecipeInput{
		Title:       req.Title,
		MakingTime:  req.MakingTime,
		Serves:      req.Serves,
		Ingredients: req.Ingredients,
	}
	if req.Cost != "" {
		cost, err := strconv.Atoi(req.Cost.String())
		if err != nil {
			return model.RecipeInput{}, err
		}
		in.Cost = cost
	}
	return in, nil
}

// HandleCreate stores a new recipe.
//
// HTTP: POST /recipes
// REQUEST BODY: {"title":"Tea","making_time":"5 min","serves":"1","ingredients":"water,leaves","cost":10}
//
// Success is 200, not 201; clients depend on it.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRecipeInput(r)
	if err != nil {
		h.logger.Warn("invalid recipe JSON", slog.String("error", err.Error()))
		writeCreateFailed(w)
		return
	}

	recipe, err := h.svc.Create(r.Context(), in)
	if err != nil {
		// Missing fields and storage failures look identical to the client.
		writeCreateFailed(w)
		return
	}

	writeJSON(w, http.StatusOK, RecipeListResponse{
		Message: msgCreated,
		Recipe:  []*model.Recipe{recipe},
	})
}

// HandleList returns every recipe.
//
// HTTP: GET /recipes
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.List(r.Context())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, RecipesResponse{Recipes: recipes})
}

// HandleGetByID returns one recipe.
//
// HTTP: GET /recipes/{id}
//
// chi.URLParam extracts {id} from the matched route. It is passed through as-is;
// the storage layer decides what matches.
func (h *RecipeHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recipe, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeMessage(w, http.StatusBadRequest, msgGetFailed)
		return
	}

	writeJSON(w, http.StatusOK, RecipeResponse{
		Message: msgDetails,
		Recipe:  recipe,
	})
}

// HandleUpdate replaces a recipe.
//
// HTTP: PATCH /recipes/{id}
//
// Despite the verb this is a full replace: all five fields are required.
// An unknown id still answers 200, with [null] as the recipe list.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := decodeRecipeInput(r)
	if err != nil {
		h.logger.Warn("invalid recipe JSON",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		writeCreateFailed(w)
		return
	}

	recipe, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeCreateFailed(w)
		return
	}

	writeJSON(w, http.StatusOK, RecipeListResponse{
		Message: msgUpdated,
		Recipe:  []*model.Recipe{recipe},
	})
}

// HandleDelete removes a recipe.
//
// HTTP: DELETE /recipes/{id}
//
// There is no dedicated message for a storage failure here; it falls back to a
// generic 500.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeMessage(w, http.StatusOK, msgRemoved)
}
