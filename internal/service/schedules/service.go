// Package schedules keeps the console's view of the orchestrator's schedule
// state. A Service fetches the raw query result through the gateway, resolves
// it into a ScheduleView, and holds the latest snapshot behind a mutex; a
// Poller drives the Service on a fixed cadence.
package schedules

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"flowdeck/internal/domain"
)

// Snapshot is a resolved schedule view plus the metadata of the fetch that
// produced it.
type Snapshot struct {
	View      domain.ScheduleView
	FetchedAt time.Time
	Duration  time.Duration
}

// Service fetches schedule state from the orchestrator and serves the latest
// resolved snapshot. A failed refresh never clears the snapshot: readers keep
// seeing the previous good view until a later refresh succeeds.
type Service struct {
	gateway   domain.ScheduleGateway
	selector  domain.RepositorySelector
	refreshes domain.RefreshLogRepository
	audit     domain.AuditRepository
	logger    *slog.Logger

	mu          sync.RWMutex
	snapshot    *Snapshot
	lastAttempt time.Time
	lastError   string
}

// NewService creates a schedule service for a single repository selector.
func NewService(
	gateway domain.ScheduleGateway,
	selector domain.RepositorySelector,
	refreshes domain.RefreshLogRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway:   gateway,
		selector:  selector,
		refreshes: refreshes,
		audit:     audit,
		logger:    logger.With("component", "schedules"),
	}
}

// Refresh queries the orchestrator, resolves the result into a view, stores
// the new snapshot, and records the outcome in the refresh log. Manual
// refreshes are additionally audited. On error the previous snapshot is left
// in place and the error is returned.
func (s *Service) Refresh(ctx context.Context, trigger string, requestedBy string) (*Snapshot, error) {
	started := time.Now()
	result, err := s.gateway.FetchScheduleState(ctx, s.selector)
	elapsed := time.Since(started)

	if err != nil {
		s.mu.Lock()
		s.lastAttempt = started
		s.lastError = err.Error()
		s.mu.Unlock()

		s.record(ctx, trigger, requestedBy, nil, err, elapsed)
		return nil, err
	}

	view := domain.ResolveScheduleView(result)
	snap := &Snapshot{View: view, FetchedAt: started, Duration: elapsed}

	s.mu.Lock()
	s.snapshot = snap
	s.lastAttempt = started
	s.lastError = ""
	s.mu.Unlock()

	s.record(ctx, trigger, requestedBy, &view, nil, elapsed)
	s.logger.Debug("schedule view refreshed",
		"trigger", trigger,
		"kind", view.Kind,
		"duration_ms", elapsed.Milliseconds(),
	)
	return snap, nil
}

// Current returns the latest snapshot, or false when no refresh has
// succeeded yet.
func (s *Service) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

// LastAttempt returns when the service last tried to refresh and the error
// message of that attempt (empty when it succeeded or nothing ran yet).
func (s *Service) LastAttempt() (time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAttempt, s.lastError
}

// Selector returns the repository selector this service queries.
func (s *Service) Selector() domain.RepositorySelector {
	return s.selector
}

// record writes the refresh-log row and, for manual triggers, an audit entry.
// Bookkeeping failures are logged and swallowed: they must not fail a refresh
// that already produced a view.
func (s *Service) record(ctx context.Context, trigger, requestedBy string, view *domain.ScheduleView, refreshErr error, elapsed time.Duration) {
	rec := &domain.RefreshRecord{
		ID:          domain.NewID(),
		Trigger:     trigger,
		RequestedBy: requestedBy,
		DurationMs:  elapsed.Milliseconds(),
		CreatedAt:   time.Now(),
	}
	status := "success"
	if refreshErr != nil {
		msg := refreshErr.Error()
		rec.ErrorMessage = &msg
		status = "error"
	} else {
		kind := string(view.Kind)
		rec.ViewKind = &kind
		if view.Repository != nil {
			rec.ScheduleCount = len(view.Repository.Schedules)
		}
		rec.UnloadableCount = len(view.Unloadable)
	}

	if err := s.refreshes.Insert(ctx, rec); err != nil {
		s.logger.Warn("recording refresh outcome failed", "error", err)
	}

	if trigger != domain.RefreshTriggerManual {
		return
	}
	entry := &domain.AuditEntry{
		ID:            domain.NewID(),
		PrincipalName: requestedBy,
		Action:        "schedules.refresh",
		Target:        strPtr(s.selector.String()),
		Status:        status,
		CreatedAt:     time.Now(),
	}
	if rec.ErrorMessage != nil {
		entry.ErrorMessage = rec.ErrorMessage
	}
	_ = s.audit.Insert(ctx, entry)
}

func strPtr(s string) *string { return &s }
