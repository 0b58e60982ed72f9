package server

import (
	"encoding/json"
	"net/http"

	"MuseFM/config"
	"MuseFM/core/auth"
	"MuseFM/repository"
	"MuseFM/storage"
)

// APIHandler holds the dependencies of all API endpoints. Everything is
// injected so handlers can be exercised with in-memory fakes.
type APIHandler struct {
	userRepo     repository.UserRepository
	audioRepo    repository.AudioRepository
	musicRepo    repository.MusicRepository
	favoriteRepo repository.FavoriteRepository
	uploader     storage.Uploader
	tokens       *auth.TokenService
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	audioRepo repository.AudioRepository,
	musicRepo repository.MusicRepository,
	favoriteRepo repository.FavoriteRepository,
	uploader storage.Uploader,
	tokens *auth.TokenService,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		audioRepo:    audioRepo,
		musicRepo:    musicRepo,
		favoriteRepo: favoriteRepo,
		uploader:     uploader,
		tokens:       tokens,
		cfg:          cfg,
	}
}

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// respondSuccess writes the success envelope.
func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, status int, errMsg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: errMsg})
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
