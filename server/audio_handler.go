package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"MuseFM/logger"
	"MuseFM/model"

	"github.com/gorilla/mux"
)

// Fixed provenance block attached to every upload. The license terms come
// from the content supplier, not from the uploaded license file's contents.
const (
	audioSource          = "ai_generated"
	audioLicenseType     = "Envato MusicGen – Commercial License"
	audioDefaultArtist   = "Envato MusicGen AI"
	audioUsageNotes      = "Licensed via Envato MusicGen. Allowed for commercial use inside this app as part of an end product. Redistribution outside the app is not permitted."
	audioDefaultTitle    = "Untitled"
	audioDefaultCategory = "General"
	licenseFallbackType  = "text/plain"
	audioKeyPrefix       = "audio"
	licenseKeyPrefix     = "licenses"
)

// UploadAudioHandler accepts one multipart request carrying an audio file, a
// license text file and optional scalar metadata. The two uploads run
// strictly in sequence; a failure anywhere aborts the whole operation. There
// is no compensating delete of an already-uploaded object, so failures after
// the first upload can leave an orphan; the orphaned key is logged for
// manual cleanup.
func (h *APIHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("Processing audio upload",
		logger.String("remoteAddr", r.RemoteAddr),
		logger.Int64("contentLength", r.ContentLength))

	form, err := parseUploadForm(r)
	if err != nil {
		var uploadErr *UploadError
		if errors.As(err, &uploadErr) {
			logger.Warn("Upload rejected", logger.String("reason", uploadErr.Error()))
			respondError(w, http.StatusBadRequest, uploadErr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to parse upload form")
		return
	}

	audioFile := form.files["audio"]
	if audioFile == nil {
		respondError(w, http.StatusBadRequest, "Audio file is required (field name: audio)")
		return
	}
	licenseFile := form.files["license_txt"]
	if licenseFile == nil {
		respondError(w, http.StatusBadRequest, "License text file is required (field name: license_txt)")
		return
	}

	title := form.value("title", audioDefaultTitle)
	category := form.value("category", audioDefaultCategory)
	duration, err := strconv.Atoi(form.value("duration", "0"))
	if err != nil {
		duration = 0
	}

	// Both objects share one upload timestamp in their keys.
	now := time.Now().UnixMilli()
	ctx := r.Context()

	audioKey := fmt.Sprintf("%s/%d-%s", audioKeyPrefix, now, audioFile.Filename)
	audioURL, err := h.uploader.Upload(ctx, audioKey, bytes.NewReader(audioFile.Data), int64(len(audioFile.Data)), audioFile.ContentType)
	if err != nil {
		logger.Error("Failed to upload audio file", logger.ErrorField(err), logger.String("key", audioKey))
		respondError(w, http.StatusInternalServerError, "Failed to upload audio file")
		return
	}

	licenseContentType := licenseFile.ContentType
	if licenseContentType == "application/octet-stream" {
		licenseContentType = licenseFallbackType
	}
	licenseKey := fmt.Sprintf("%s/%d-%s", licenseKeyPrefix, now, licenseFile.Filename)
	licenseURL, err := h.uploader.Upload(ctx, licenseKey, bytes.NewReader(licenseFile.Data), int64(len(licenseFile.Data)), licenseContentType)
	if err != nil {
		logger.Error("Failed to upload license file", logger.ErrorField(err),
			logger.String("key", licenseKey),
			logger.String("orphanedKey", audioKey))
		respondError(w, http.StatusInternalServerError, "Failed to upload license file")
		return
	}

	audio := &model.Audio{
		Title:                 title,
		Category:              category,
		Duration:              duration,
		AudioURL:              audioURL,
		Source:                audioSource,
		LicenseType:           audioLicenseType,
		LicenseURL:            licenseURL,
		OriginalAudioURL:      form.value("original_audio_url", ""),
		ArtistName:            form.value("artist_name", audioDefaultArtist),
		AttributionRequired:   false,
		RedistributionAllowed: false,
		UsageNotes:            audioUsageNotes,
	}
	if err := h.audioRepo.Create(audio); err != nil {
		logger.Error("Failed to save audio record", logger.ErrorField(err),
			logger.String("orphanedKey", audioKey),
			logger.String("orphanedKey2", licenseKey))
		respondError(w, http.StatusInternalServerError, "Failed to save audio record")
		return
	}

	logger.Info("Audio uploaded",
		logger.String("audioId", audio.ID),
		logger.String("audioKey", audioKey),
		logger.String("licenseKey", licenseKey))
	respondSuccess(w, http.StatusCreated, "Audio uploaded successfully", audio)
}

// GetAllAudioHandler returns every audio record, newest first.
func (h *APIHandler) GetAllAudioHandler(w http.ResponseWriter, r *http.Request) {
	audioList, err := h.audioRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch audio list", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch audio files")
		return
	}

	if len(audioList) == 0 {
		respondSuccess(w, http.StatusOK, "No audio files found", audioList)
		return
	}
	respondSuccess(w, http.StatusOK, "Audio files fetched successfully", audioList)
}

// GetAudioByIDHandler returns one audio record by id.
func (h *APIHandler) GetAudioByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !model.IsValidID(id) {
		respondError(w, http.StatusBadRequest, "Invalid audio ID format")
		return
	}

	audio, err := h.audioRepo.FindByID(id)
	if err != nil {
		logger.Error("Failed to fetch audio", logger.ErrorField(err), logger.String("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to fetch audio")
		return
	}
	if audio == nil {
		respondError(w, http.StatusNotFound, "Audio not found")
		return
	}

	respondSuccess(w, http.StatusOK, "Audio fetched successfully", audio)
}

// GetAudioByCategoryHandler returns audio records matching the category
// query with the relaxed token-ordered pattern.
func (h *APIHandler) GetAudioByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	audioList, err := h.audioRepo.FindByCategory(category)
	if err != nil {
		logger.Error("Failed to search audio by category", logger.ErrorField(err), logger.String("category", category))
		respondError(w, http.StatusInternalServerError, "Failed to fetch audio files")
		return
	}

	if len(audioList) == 0 {
		respondSuccess(w, http.StatusOK, fmt.Sprintf("No audio files found for category: %s", category), audioList)
		return
	}
	respondSuccess(w, http.StatusOK, "Audio files fetched successfully", audioList)
}
