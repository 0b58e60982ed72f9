package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndVerifyPair(t *testing.T) {
	svc := newTestTokenService()

	access, refresh, err := svc.IssuePair("64a1b2c3d4e5f60718293a4b")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	userID, err := svc.VerifyAccess(access)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if userID != "64a1b2c3d4e5f60718293a4b" {
		t.Errorf("VerifyAccess returned user %q", userID)
	}

	userID, err = svc.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh failed: %v", err)
	}
	if userID != "64a1b2c3d4e5f60718293a4b" {
		t.Errorf("VerifyRefresh returned user %q", userID)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := newTestTokenService()

	access, refresh, err := svc.IssuePair("64a1b2c3d4e5f60718293a4b")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	if _, err := svc.VerifyRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token verified as refresh, err = %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token verified as access, err = %v", err)
	}
}

func TestVerifyRejectsForeignAndTamperedTokens(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("other-access", "other-refresh", 15*time.Minute, 7*24*time.Hour)

	access, err := other.IssueAccess("64a1b2c3d4e5f60718293a4b")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if _, err := svc.VerifyAccess(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with a different secret verified, err = %v", err)
	}

	if _, err := svc.VerifyAccess("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token verified, err = %v", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := svc.IssueAccess("64a1b2c3d4e5f60718293a4b")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if _, err := svc.VerifyAccess(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token verified, err = %v", err)
	}
}

func TestMissingSecret(t *testing.T) {
	svc := NewTokenService("", "", 15*time.Minute, 7*24*time.Hour)

	if _, err := svc.IssueAccess("64a1b2c3d4e5f60718293a4b"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("IssueAccess err = %v, want ErrMissingSecret", err)
	}
	if _, err := svc.VerifyRefresh("whatever"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("VerifyRefresh err = %v, want ErrMissingSecret", err)
	}
}
