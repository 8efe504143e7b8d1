package domain

import (
	"context"
	"time"
)

// ScheduleGateway fetches and decodes one schedules query from the
// orchestrator. Implemented by orchestrator.Client.
type ScheduleGateway interface {
	FetchScheduleState(ctx context.Context, sel RepositorySelector) (ScheduleQueryResult, error)
}

// APIKeyRepository provides operations for API keys.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) (*APIKey, error)
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	List(ctx context.Context, page PageRequest) ([]APIKey, int64, error)
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// AuditRepository provides operations for audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}

// RefreshLogRepository records one row per orchestrator poll.
type RefreshLogRepository interface {
	Insert(ctx context.Context, r *RefreshRecord) error
	List(ctx context.Context, filter RefreshFilter) ([]RefreshRecord, int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}
