package handler

import (
	"net/http"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
)

// ListMeals returns every planned meal
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.svc.ListMeals(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

// CreateMeal plans a meal for a user and recipe
func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req models.MealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.CreateMeal(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message{"message": "Meal added successfully"})
}

// GetMeal returns one meal
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Meal not found"))
		return
	}
	meal, err := h.svc.GetMeal(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// UpdateMeal requires date, user_id and recipe_id; name and notes are optional
func (h *Handler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Meal not found"))
		return
	}
	var req models.MealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.svc.UpdateMeal(r.Context(), id, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{"message": "Meal updated successfully"})
}

// DeleteMeal removes a meal
func (h *Handler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, apperrors.NotFound("Meal not found"))
		return
	}
	if err := h.svc.DeleteMeal(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message{"message": "Meal deleted successfully"})
}
