package id

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GUIDLength is the length of a book object identifier.
const GUIDLength = 32

// NewGUID returns a random identifier as 32 lowercase hex characters.
func NewGUID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ValidGUID reports whether s looks like an identifier made by NewGUID.
func ValidGUID(s string) bool {
	if len(s) != GUIDLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Normalize accepts either a 32-char GUID or a dashed UUID and returns the
// 32-char lowercase form.
func Normalize(s string) (string, bool) {
	if ValidGUID(strings.ToLower(s)) {
		return strings.ToLower(s), true
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return hex.EncodeToString(u[:]), true
}
