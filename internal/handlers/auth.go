package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bengin34/rightyLove/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		statusCode := http.StatusInternalServerError
		message := "failed to register"
		switch {
		case errors.Is(err, services.ErrEmailRequired), errors.Is(err, services.ErrPasswordRequired):
			statusCode, message = http.StatusBadRequest, err.Error()
		case errors.Is(err, services.ErrEmailTaken):
			statusCode, message = http.StatusConflict, err.Error()
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		}
		respondError(w, message, statusCode)
		return
	}

	log.Info().Str("user_id", result.User.ID).Msg("User registered")
	respondData(w, http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to log in user")
		respondError(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	respondData(w, http.StatusOK, result)
}
