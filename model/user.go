package model

import "time"

// Auth provider tags.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User represents a registered account. Emails are stored lowercase and are
// unique. PasswordHash is empty for social-auth accounts. RefreshToken holds
// the single currently valid refresh token; every new issuance overwrites it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed in API responses
	Provider     string    `json:"provider,omitempty"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
