package store

import "github.com/google/uuid"

// NewID returns a fresh document identifier.
func NewID() string {
	return uuid.NewString()
}

// CheckID rejects identifiers that are not UUIDs before they reach the
// database.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrMalformedID
	}
	return nil
}
