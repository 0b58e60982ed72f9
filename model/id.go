package model

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a new 24 character hex identifier (12 random bytes).
func NewID() string {
	b := make([]byte, 12)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// IsValidID reports whether s is a well-formed record identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
