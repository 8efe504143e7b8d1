// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"
	"time"

	"flowdeck/internal/domain"
)

// === Schedule Gateway Mock ===

// MockScheduleGateway implements domain.ScheduleGateway for testing.
type MockScheduleGateway struct {
	FetchFn func(ctx context.Context, sel domain.RepositorySelector) (domain.ScheduleQueryResult, error)

	mu    sync.Mutex
	calls int
}

// FetchScheduleState implements the interface method for testing.
func (m *MockScheduleGateway) FetchScheduleState(ctx context.Context, sel domain.RepositorySelector) (domain.ScheduleQueryResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.FetchFn != nil {
		return m.FetchFn(ctx, sel)
	}
	panic("unexpected call to MockScheduleGateway.FetchScheduleState")
}

// Calls returns how many times the gateway was queried.
func (m *MockScheduleGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ domain.ScheduleGateway = (*MockScheduleGateway)(nil)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)

	mu      sync.Mutex
	Entries []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, e)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]domain.AuditEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, *e)
	}
	return entries, int64(len(entries)), nil
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// HasAction returns true if any collected entry has the given action.
func (m *MockAuditRepo) HasAction(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

var _ domain.AuditRepository = (*MockAuditRepo)(nil)

// === Refresh Log Repository Mock ===

// MockRefreshLogRepo implements domain.RefreshLogRepository for testing.
type MockRefreshLogRepo struct {
	InsertFn func(ctx context.Context, r *domain.RefreshRecord) error
	ListFn   func(ctx context.Context, filter domain.RefreshFilter) ([]domain.RefreshRecord, int64, error)
	PruneFn  func(ctx context.Context, keep int) (int64, error)

	mu      sync.Mutex
	Records []*domain.RefreshRecord // collected records for assertions
}

// Insert implements the interface method for testing.
func (m *MockRefreshLogRepo) Insert(ctx context.Context, r *domain.RefreshRecord) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Records = append(m.Records, r)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockRefreshLogRepo) List(ctx context.Context, filter domain.RefreshFilter) ([]domain.RefreshRecord, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]domain.RefreshRecord, 0, len(m.Records))
	for _, r := range m.Records {
		records = append(records, *r)
	}
	return records, int64(len(records)), nil
}

// Prune implements the interface method for testing.
func (m *MockRefreshLogRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if m.PruneFn != nil {
		return m.PruneFn(ctx, keep)
	}
	return 0, nil
}

// LastRecord returns the last collected refresh record, or nil if none.
func (m *MockRefreshLogRepo) LastRecord() *domain.RefreshRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Records) == 0 {
		return nil
	}
	return m.Records[len(m.Records)-1]
}

var _ domain.RefreshLogRepository = (*MockRefreshLogRepo)(nil)

// === API Key Repository Mock ===

// MockAPIKeyRepo implements domain.APIKeyRepository for testing.
type MockAPIKeyRepo struct {
	CreateFn        func(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error)
	GetByHashFn     func(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListFn          func(ctx context.Context, page domain.PageRequest) ([]domain.APIKey, int64, error)
	TouchLastUsedFn func(ctx context.Context, id string, at time.Time) error
	DeleteFn        func(ctx context.Context, id string) error
}

// Create implements the interface method for testing.
func (m *MockAPIKeyRepo) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, k)
	}
	panic("unexpected call to MockAPIKeyRepo.Create")
}

// GetByHash implements the interface method for testing.
func (m *MockAPIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	if m.GetByHashFn != nil {
		return m.GetByHashFn(ctx, keyHash)
	}
	panic("unexpected call to MockAPIKeyRepo.GetByHash")
}

// List implements the interface method for testing.
func (m *MockAPIKeyRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.APIKey, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	panic("unexpected call to MockAPIKeyRepo.List")
}

// TouchLastUsed implements the interface method for testing.
func (m *MockAPIKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	if m.TouchLastUsedFn != nil {
		return m.TouchLastUsedFn(ctx, id, at)
	}
	return nil
}

// Delete implements the interface method for testing.
func (m *MockAPIKeyRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockAPIKeyRepo.Delete")
}

var _ domain.APIKeyRepository = (*MockAPIKeyRepo)(nil)
