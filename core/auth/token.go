package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret means a signing secret was never configured. This is
	// a deployment problem, not a caller problem, and maps to a 500.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	// ErrInvalidToken covers expired, tampered and superseded tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access and refresh tokens. The two token
// kinds are signed with distinct secrets and never verify against each
// other's.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a token service. Empty secrets are tolerated here
// and reported as ErrMissingSecret on first use.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) sign(secret []byte, userID string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(secret []byte, tokenString string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueAccess signs a new short-lived access token for the user.
func (s *TokenService) IssueAccess(userID string) (string, error) {
	return s.sign(s.accessSecret, userID, s.accessTTL)
}

// IssueRefresh signs a new long-lived refresh token for the user.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	return s.sign(s.refreshSecret, userID, s.refreshTTL)
}

// IssuePair signs a fresh access/refresh token pair. The caller is expected
// to persist the refresh token as the user's single active session token.
func (s *TokenService) IssuePair(userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = s.IssueAccess(userID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.IssueRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// VerifyAccess validates an access token and returns the user id it carries.
func (s *TokenService) VerifyAccess(tokenString string) (string, error) {
	claims, err := s.parse(s.accessSecret, tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// VerifyRefresh validates a refresh token signature and expiry and returns
// the user id it carries. Checking that the token is still the user's
// current one is the caller's job; only the store knows that.
func (s *TokenService) VerifyRefresh(tokenString string) (string, error) {
	claims, err := s.parse(s.refreshSecret, tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
