package domain

import "github.com/google/uuid"

// NewID mints a UUIDv7 string. Time-ordered IDs keep control-plane rows in
// insertion order under their primary key.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
