package domain

import "time"

// AuditEntry is one audit log record: a principal's action with its target
// and outcome.
type AuditEntry struct {
	ID            string
	PrincipalName string
	Action        string  // e.g. "auth.login", "schedules.refresh", "docs.pin_version"
	Target        *string // action-specific subject, e.g. a docs version
	Detail        *string
	Status        string // "success" or "error"
	ErrorMessage  *string
	CreatedAt     time.Time
}

// AuditFilter holds filter parameters for querying audit logs.
type AuditFilter struct {
	PrincipalName *string
	Action        *string
	Status        *string
	Since         *time.Time
	Page          PageRequest
}
