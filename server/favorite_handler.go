package server

import (
	"net/http"

	"MuseFM/logger"
	"MuseFM/model"

	"github.com/gorilla/mux"
)

type addFavoriteRequest struct {
	UserID   string `json:"userId"`
	AudioID  string `json:"audioId"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
	AudioURL string `json:"audioUrl"`
}

// GetFavoritesHandler lists one user's favorites.
func (h *APIHandler) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	favorites, err := h.favoriteRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to fetch favorites", logger.ErrorField(err), logger.String("userId", userID))
		respondError(w, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}

	respondSuccess(w, http.StatusOK, "Favorites fetched successfully", favorites)
}

// AddFavoriteHandler saves a favorite. Favoriting the same audio twice
// refreshes the stored snapshot rather than failing.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.AudioID == "" {
		respondError(w, http.StatusBadRequest, "userId and audioId are required")
		return
	}

	favorite := &model.Favorite{
		UserID:   req.UserID,
		AudioID:  req.AudioID,
		Title:    req.Title,
		Category: req.Category,
		Duration: req.Duration,
		AudioURL: req.AudioURL,
	}
	saved, err := h.favoriteRepo.Upsert(r.Context(), favorite)
	if err != nil {
		logger.Error("Failed to save favorite", logger.ErrorField(err),
			logger.String("userId", req.UserID),
			logger.String("audioId", req.AudioID))
		respondError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}

	respondSuccess(w, http.StatusOK, "Favorite saved", saved)
}

// RemoveFavoriteHandler deletes one favorite. Removing an absent favorite
// still succeeds.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	audioID := mux.Vars(r)["audioId"]
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.favoriteRepo.Remove(r.Context(), userID, audioID); err != nil {
		logger.Error("Failed to remove favorite", logger.ErrorField(err),
			logger.String("userId", userID),
			logger.String("audioId", audioID))
		respondError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}

	respondSuccess(w, http.StatusOK, "Favorite removed", nil)
}
