package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// NewRandomID returns a new random (v4) UUID string.
func NewRandomID() string {
	return uuid.New().String()
}

// NewID returns a well formed, deterministic ID. Intended for tests.
func NewID(i int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", i)
}

// IsValidID returns if the given string is a well formed ID.
//
// Any ID we accept from outside is used to build file paths & object keys,
// so we're strict about what we take.
func IsValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
