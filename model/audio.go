package model

import "time"

// Audio represents an uploaded audio file plus its licensing provenance.
// Records are immutable after creation; there is no update endpoint.
type Audio struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Category              string    `json:"category"`
	Duration              int       `json:"duration"` // seconds
	AudioURL              string    `json:"audioUrl"`
	Source                string    `json:"source"`
	LicenseType           string    `json:"license_type"`
	LicenseURL            string    `json:"license_url"`
	OriginalAudioURL      string    `json:"original_audio_url,omitempty"`
	ArtistName            string    `json:"artist_name"`
	AttributionRequired   bool      `json:"attribution_required"`
	RedistributionAllowed bool      `json:"is_redistribution_allowed"`
	UsageNotes            string    `json:"usage_notes"`
	CreatedAt             time.Time `json:"createdAt"`
}
