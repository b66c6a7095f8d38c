package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random 32 char hex identifier (uuid v4 without dashes).
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidID reports whether s has the shape produced by NewID.
func ValidID(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
