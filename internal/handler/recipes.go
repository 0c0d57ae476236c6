package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
	"github.com/Dan9191/mealmate/internal/recipeml"
)

// ListRecipes returns every recipe
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// CreateRecipe adds a recipe owned by user_id
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.RecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.CreateRecipe(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message{"message": "Recipe added successfully"})
}

// GetRecipe returns one recipe
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Recipe not found"))
		return
	}
	recipe, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// UpdateRecipe changes only the fields present in the body
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Recipe not found"))
		return
	}
	var req models.RecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.UpdateRecipe(r.Context(), id, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{"message": "Recipe updated successfully"})
}

// DeleteRecipe removes a recipe. It answers 409 while meals still reference it.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Recipe not found"))
		return
	}
	if err := h.svc.DeleteRecipe(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{"message": "Recipe deleted successfully"})
}

// ExportRecipe renders one recipe as a RecipeML document
func (h *Handler) ExportRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Recipe not found"))
		return
	}
	recipe, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := recipeml.Encode(recipe)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", recipeml.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// ImportRecipe creates a recipe from a RecipeML body for the user in ?user_id=
func (h *Handler) ImportRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, r, apperrors.Validation("Missing required fields"))
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, apperrors.BadRequest("Invalid request body", err))
		return
	}
	parsed, err := recipeml.Decode(raw)
	if err != nil {
		h.writeError(w, r, apperrors.Validation("Invalid RecipeML: "+err.Error()))
		return
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), models.RecipeRequest{
		Title:        &parsed.Title,
		Ingredients:  &parsed.Ingredients,
		Instructions: &parsed.Instructions,
		UserID:       &userID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message{"message": "Recipe imported successfully", "id": recipe.ID})
}
