package utils

import "github.com/google/uuid"

// NewID returns a random identifier for a new document row.
func NewID() string {
	return uuid.NewString()
}
