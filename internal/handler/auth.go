package handler

import (
	"net/http"

	"github.com/Dan9191/mealmate/internal/apperrors"
	"github.com/Dan9191/mealmate/internal/models"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	err := decodeJSON(w, r, &req)
	if err == nil {
		err = h.svc.Register(r.Context(), req)
	}
	if err != nil {
		// registration reports client errors under "message"
		if se, ok := apperrors.As(err); ok && se.HTTPStatus == http.StatusBadRequest {
			msg := se.Message
			if se.Code == apperrors.CodeMalformedRequest {
				msg = "Invalid request data"
			}
			writeJSON(w, http.StatusBadRequest, message{"message": msg})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message{"message": "User registered successfully"})
}

// LoginInfo answers GET /login
func (h *Handler) LoginInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, message{"message": "Login endpoint"})
}

// Login handles user authentication. No token is issued; the caller keeps the returned identity.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if se, ok := apperrors.As(err); ok && se.HTTPStatus < http.StatusInternalServerError {
			h.writeError(w, r, err)
			return
		}
		h.log.Errorf("Login error: %v", err)
		writeJSON(w, http.StatusInternalServerError, message{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Message:  "Login successful",
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
