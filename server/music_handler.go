package server

import (
	"fmt"
	"net/http"

	"MuseFM/logger"
	"MuseFM/model"

	"github.com/gorilla/mux"
)

type createMusicRequest struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Duration  string   `json:"duration"`
	AudioURL  string   `json:"audioUrl"`
	IsPremium bool     `json:"isPremium"`
	Tags      []string `json:"tags"`
}

// CreateMusicHandler registers a music catalog entry pointing at an already
// uploaded audio URL.
func (h *APIHandler) CreateMusicHandler(w http.ResponseWriter, r *http.Request) {
	var req createMusicRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Category == "" || req.AudioURL == "" {
		respondError(w, http.StatusBadRequest, "title, category, and audioUrl are required.")
		return
	}

	music := &model.Music{
		Title:     req.Title,
		Category:  req.Category,
		Duration:  req.Duration,
		AudioURL:  req.AudioURL,
		IsPremium: req.IsPremium,
		Tags:      req.Tags,
	}
	if err := h.musicRepo.Create(r.Context(), music); err != nil {
		logger.Error("Failed to create music", logger.ErrorField(err), logger.String("title", req.Title))
		respondError(w, http.StatusInternalServerError, "Failed to create music.")
		return
	}

	respondSuccess(w, http.StatusCreated, "Music created successfully.", music)
}

// GetAllMusicHandler lists every catalog entry, newest first.
func (h *APIHandler) GetAllMusicHandler(w http.ResponseWriter, r *http.Request) {
	musicList, err := h.musicRepo.FindAll(r.Context())
	if err != nil {
		logger.Error("Failed to fetch music", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch music.")
		return
	}

	if len(musicList) == 0 {
		respondSuccess(w, http.StatusOK, "No music found.", musicList)
		return
	}
	respondSuccess(w, http.StatusOK, "Music fetched successfully.", musicList)
}

// GetMusicByCategoryHandler lists entries whose category matches exactly.
// Unlike the audio search this does not tokenize the query.
func (h *APIHandler) GetMusicByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	musicList, err := h.musicRepo.FindByCategory(r.Context(), category)
	if err != nil {
		logger.Error("Failed to fetch music by category", logger.ErrorField(err), logger.String("category", category))
		respondError(w, http.StatusInternalServerError, "Failed to fetch music.")
		return
	}

	if len(musicList) == 0 {
		respondSuccess(w, http.StatusOK, fmt.Sprintf("No music found for category: %s.", category), musicList)
		return
	}
	respondSuccess(w, http.StatusOK, "Music fetched successfully.", musicList)
}

// GetTrendingMusicHandler lists entries ordered by like count, then recency.
func (h *APIHandler) GetTrendingMusicHandler(w http.ResponseWriter, r *http.Request) {
	musicList, err := h.musicRepo.FindTrending(r.Context())
	if err != nil {
		logger.Error("Failed to fetch trending music", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch music.")
		return
	}

	if len(musicList) == 0 {
		respondSuccess(w, http.StatusOK, "No music found.", musicList)
		return
	}
	respondSuccess(w, http.StatusOK, "Trending music fetched successfully.", musicList)
}

// LikeMusicHandler atomically increments the like counter of one entry.
func (h *APIHandler) LikeMusicHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !model.IsValidID(id) {
		respondError(w, http.StatusBadRequest, "Invalid music ID.")
		return
	}

	music, err := h.musicRepo.IncrementLikes(r.Context(), id)
	if err != nil {
		logger.Error("Failed to like music", logger.ErrorField(err), logger.String("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to like music.")
		return
	}
	if music == nil {
		respondError(w, http.StatusNotFound, "Music not found.")
		return
	}

	respondSuccess(w, http.StatusOK, "Like incremented successfully.", music)
}

// DeleteMusicHandler removes one entry and echoes the deleted record.
func (h *APIHandler) DeleteMusicHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !model.IsValidID(id) {
		respondError(w, http.StatusBadRequest, "Invalid music ID.")
		return
	}

	music, err := h.musicRepo.Delete(r.Context(), id)
	if err != nil {
		logger.Error("Failed to delete music", logger.ErrorField(err), logger.String("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete music.")
		return
	}
	if music == nil {
		respondError(w, http.StatusNotFound, "Music not found.")
		return
	}

	logger.Info("Music deleted", logger.String("id", id))
	respondSuccess(w, http.StatusOK, "Music deleted successfully.", music)
}
