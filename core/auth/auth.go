package auth

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used for password hashing.
const bcryptCost = 12

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// MaxPasswordLength is the maximum accepted password length in bytes.
// bcrypt only consumes the first 72 bytes of input; longer passwords are
// rejected up front instead of being silently truncated or erroring at
// hash time.
const MaxPasswordLength = 72

// emailPattern accepts a simple local@domain.tld shape. Full RFC 5322
// validation is not attempted.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsValidEmail reports whether the email is syntactically acceptable.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword reports whether the password meets the minimum length
// requirement.
func IsStrongPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// IsHashablePassword reports whether the password fits within bcrypt's
// input limit.
func IsHashablePassword(password string) bool {
	return len(password) <= MaxPasswordLength
}
