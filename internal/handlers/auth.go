package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-board-backend/internal/middleware"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// TokenResponse is the login response payload
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			log.Error().Err(err).Msg("Failed to register user")
		}
		respondStoreError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Msg("User registered")
	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("Authentication lookup failed")
		respondStoreError(w, err)
		return
	}
	if user == nil {
		// same message whether the email or the password was wrong
		respondError(w, "incorrect email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.IssueToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to issue token")
		respondError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.auth.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load current user")
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
