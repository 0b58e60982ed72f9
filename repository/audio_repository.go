package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MuseFM/model"
)

// AudioRepository defines the interface for audio record operations. Audio
// records are immutable after creation; there are no update methods.
type AudioRepository interface {
	Create(audio *model.Audio) error
	FindByID(id string) (*model.Audio, error)
	FindAll() ([]*model.Audio, error)
	FindByCategory(query string) ([]*model.Audio, error)
}

// mysqlAudioRepository implements AudioRepository for MySQL.
type mysqlAudioRepository struct {
	db *sql.DB
}

// NewMySQLAudioRepository creates a new mysqlAudioRepository.
func NewMySQLAudioRepository(db *sql.DB) AudioRepository {
	return &mysqlAudioRepository{db: db}
}

const audioColumns = "id, title, category, duration, audio_url, source, license_type, license_url, original_audio_url, artist_name, attribution_required, is_redistribution_allowed, usage_notes, created_at"

// Create adds a new audio record to the database.
func (r *mysqlAudioRepository) Create(audio *model.Audio) error {
	if audio.ID == "" {
		audio.ID = model.NewID()
	}
	if audio.CreatedAt.IsZero() {
		audio.CreatedAt = time.Now()
	}

	query := `INSERT INTO audios (` + audioColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		audio.ID, audio.Title, audio.Category, audio.Duration, audio.AudioURL,
		audio.Source, audio.LicenseType, audio.LicenseURL, nullable(audio.OriginalAudioURL),
		audio.ArtistName, audio.AttributionRequired, audio.RedistributionAllowed,
		audio.UsageNotes, audio.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute create audio statement: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanAudio(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Audio, error) {
	audio := &model.Audio{}
	var originalURL sql.NullString
	err := scanner.Scan(&audio.ID, &audio.Title, &audio.Category, &audio.Duration,
		&audio.AudioURL, &audio.Source, &audio.LicenseType, &audio.LicenseURL,
		&originalURL, &audio.ArtistName, &audio.AttributionRequired,
		&audio.RedistributionAllowed, &audio.UsageNotes, &audio.CreatedAt)
	if err != nil {
		return nil, err
	}
	audio.OriginalAudioURL = originalURL.String
	return audio, nil
}

// FindByID retrieves an audio record by its ID.
func (r *mysqlAudioRepository) FindByID(id string) (*model.Audio, error) {
	query := `SELECT ` + audioColumns + ` FROM audios WHERE id = ?`
	audio, err := scanAudio(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Audio not found
		}
		return nil, fmt.Errorf("failed to scan audio by ID %s: %w", id, err)
	}
	return audio, nil
}

func (r *mysqlAudioRepository) queryAudios(query string, args ...interface{}) ([]*model.Audio, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audios: %w", err)
	}
	defer rows.Close()

	audios := make([]*model.Audio, 0)
	for rows.Next() {
		audio, err := scanAudio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audio row: %w", err)
		}
		audios = append(audios, audio)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during audio rows iteration: %w", err)
	}
	return audios, nil
}

// FindAll retrieves all audio records, newest first.
func (r *mysqlAudioRepository) FindAll() ([]*model.Audio, error) {
	query := `SELECT ` + audioColumns + ` FROM audios ORDER BY created_at DESC`
	return r.queryAudios(query)
}

// FindByCategory retrieves audio records whose category matches the relaxed
// token-ordered pattern built from the query, newest first. Matching is
// case-insensitive.
func (r *mysqlAudioRepository) FindByCategory(query string) ([]*model.Audio, error) {
	pattern := strings.ToLower(BuildCategoryPattern(query))
	sqlQuery := `SELECT ` + audioColumns + ` FROM audios WHERE LOWER(category) REGEXP ? ORDER BY created_at DESC`
	return r.queryAudios(sqlQuery, pattern)
}
