package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dverbeek/planboard/internal/middleware"
	"github.com/dverbeek/planboard/internal/models"
	"github.com/dverbeek/planboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

type APITokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewAPITokenHandler(tokenRepo repository.APITokenRepository) *APITokenHandler {
	return &APITokenHandler{tokenRepo: tokenRepo}
}

func (handler *APITokenHandler) List(w http.ResponseWriter, r *http.Request) {
	tokens, err := handler.tokenRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("listing tokens", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

type createTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type createTokenResponse struct {
	models.APIToken
	Token string `json:"token"`
}

// Create mints a new token. The plaintext value is returned exactly once;
// only its hash is stored.
func (handler *APITokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createTokenRequest
	if err := decodeJSON(r, &request); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeErrorJSON(w, http.StatusBadRequest, "name is required")
		return
	}

	plaintext, err := generateToken()
	if err != nil {
		slog.Error("generating token", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := middleware.GetUser(r.Context())
	token, err := handler.tokenRepo.Create(r.Context(), models.APIToken{
		Name:            request.Name,
		TokenHash:       repository.HashToken(plaintext),
		CreatedByUserID: user.ID,
		ExpiresAt:       request.ExpiresAt,
	})
	if err != nil {
		slog.Error("creating token", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, createTokenResponse{APIToken: token, Token: plaintext})
}

func (handler *APITokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.tokenRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting token", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return "pb_" + hex.EncodeToString(raw), nil
}
