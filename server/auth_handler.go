package server

import (
	"errors"
	"net/http"
	"strings"

	"MuseFM/core/auth"
	"MuseFM/logger"
	"MuseFM/model"
	"MuseFM/repository"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest represents the social login request body.
type GoogleAuthRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userSummary is the only user shape ever returned by auth endpoints. The
// password hash and refresh token never leave the server.
type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func summarize(user *model.User) userSummary {
	return userSummary{ID: user.ID, Name: user.Name, Email: user.Email}
}

// authPayload is the data block of a successful register/login/social auth.
type authPayload struct {
	User         userSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// issueSession signs a fresh token pair and stores the refresh token as the
// user's only valid one, invalidating any previous session.
func (h *APIHandler) issueSession(user *model.User) (*authPayload, error) {
	accessToken, refreshToken, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := h.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}
	return &authPayload{
		User:         summarize(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}
	if !auth.IsValidEmail(strings.ToLower(req.Email)) {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if !auth.IsStrongPassword(req.Password) {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	if !auth.IsHashablePassword(req.Password) {
		respondError(w, http.StatusBadRequest, "Password must be at most 72 characters")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("[Register] Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		Provider:     model.ProviderEmail,
	}
	if err := h.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Warn("[Register] Email already registered", logger.String("email", user.Email))
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		logger.Error("[Register] Failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	payload, err := h.issueSession(user)
	if err != nil {
		logger.Error("[Register] Failed to issue tokens", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	logger.Info("[Register] Account created", logger.String("userId", user.ID))
	respondSuccess(w, http.StatusCreated, "Account created", payload)
}

// LoginHandler handles email/password login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.userRepo.FindByEmail(req.Email, true)
	if err != nil {
		logger.Error("[Login] Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// One undifferentiated 401 for every credential failure: an unknown
	// email, a social-only account, and a wrong password are all reported
	// the same way so the endpoint never confirms which emails exist.
	if user == nil || user.Provider != model.ProviderEmail || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("[Login] Invalid credentials", logger.String("email", strings.ToLower(req.Email)))
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	payload, err := h.issueSession(user)
	if err != nil {
		logger.Error("[Login] Failed to issue tokens", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	logger.Info("[Login] Login successful", logger.String("userId", user.ID))
	respondSuccess(w, http.StatusOK, "Login successful", payload)
}

// GoogleAuthHandler handles social login requests. A first-time email gets
// an account with no password; a known email either adopts the google
// provider tag or is rejected, depending on configuration.
func (h *APIHandler) GoogleAuthHandler(w http.ResponseWriter, r *http.Request) {
	var req GoogleAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "email and name are required")
		return
	}

	user, err := h.userRepo.FindByEmail(req.Email, false)
	if err != nil {
		logger.Error("[GoogleAuth] Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user == nil {
		user = &model.User{
			Name:     req.Name,
			Email:    strings.ToLower(req.Email),
			Provider: model.ProviderGoogle,
		}
		if err := h.userRepo.Create(user); err != nil {
			logger.Error("[GoogleAuth] Failed to create user", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
	} else if user.Provider != model.ProviderGoogle {
		if !h.cfg.AllowProviderSwitch {
			respondError(w, http.StatusBadRequest, "This account is registered with email/password")
			return
		}
		if err := h.userRepo.UpdateProvider(user.ID, model.ProviderGoogle); err != nil {
			logger.Error("[GoogleAuth] Failed to update provider", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		user.Provider = model.ProviderGoogle
	}

	payload, err := h.issueSession(user)
	if err != nil {
		logger.Error("[GoogleAuth] Failed to issue tokens", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	logger.Info("[GoogleAuth] Google auth successful", logger.String("userId", user.ID))
	respondSuccess(w, http.StatusOK, "Google auth successful", payload)
}

// RefreshTokenHandler exchanges a valid refresh token for a new access
// token. The stored refresh token is NOT rotated here; only register, login
// and social auth replace it.
func (h *APIHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	userID, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrMissingSecret) {
			logger.Error("[Refresh] Token service misconfigured", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Authentication is not configured on this server")
			return
		}
		respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := h.userRepo.FindByID(userID, true)
	if err != nil {
		logger.Error("[Refresh] Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Only the latest issued refresh token is honored. A token that was
	// superseded by a newer login verifies fine cryptographically but no
	// longer matches the stored one.
	if user == nil || user.RefreshToken != req.RefreshToken {
		respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	accessToken, err := h.tokens.IssueAccess(user.ID)
	if err != nil {
		logger.Error("[Refresh] Failed to issue access token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	respondSuccess(w, http.StatusOK, "Token refreshed", map[string]string{
		"accessToken": accessToken,
	})
}
