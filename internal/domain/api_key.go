package domain

import "time"

// APIKey represents an API key for programmatic access.
type APIKey struct {
	ID            string
	PrincipalName string
	Name          string
	KeyPrefix     string // first 8 chars for identification
	KeyHash       string // SHA-256 of raw key; raw key is never stored
	IsAdmin       bool
	ExpiresAt     *time.Time
	LastUsedAt    *time.Time
	CreatedAt     time.Time
}

// Expired reports whether the key is past its expiry at the given instant.
func (k APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// CreateAPIKeyRequest holds parameters for creating a new API key.
type CreateAPIKeyRequest struct {
	PrincipalName string
	Name          string
	IsAdmin       bool
	ExpiresAt     *time.Time
}

// Validate checks that the request is well-formed.
func (r *CreateAPIKeyRequest) Validate() error {
	if r.PrincipalName == "" {
		return ErrValidation("principal_name is required")
	}
	if r.Name == "" {
		return ErrValidation("api key name is required")
	}
	return nil
}
