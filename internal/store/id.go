package store

import "github.com/google/uuid"

// NewID returns a new document id. UUIDv7 keeps ids time-ordered for
// index locality; falls back to v4 if v7 generation fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
