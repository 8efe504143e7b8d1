package schedules

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"flowdeck/internal/domain"
)

// DefaultPollInterval is how often the poller re-queries the orchestrator
// when no interval is configured.
const DefaultPollInterval = 50 * time.Second

// Poller refreshes the schedule service on a fixed cadence so the console
// serves a recent view without fetching on every request.
type Poller struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewPoller creates a poller around the given service. A non-positive
// interval falls back to DefaultPollInterval.
func NewPoller(svc *Service, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		svc:      svc,
		interval: interval,
		logger:   logger.With("component", "poller"),
	}
}

// Start launches the polling loop. The first refresh runs immediately so the
// console has data before the first tick. Returns a conflict error if the
// poller is already running.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return domain.ErrConflict("poller already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	p.cancel = cancel
	p.group = g

	g.Go(func() error {
		p.run(gctx)
		return nil
	})

	p.logger.Info("schedule poller started", "interval", p.interval.String())
	return nil
}

// Stop cancels the polling loop and waits for the in-flight refresh to
// finish. Stopping a poller that is not running is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, group := p.cancel, p.group
	p.cancel, p.group = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	_ = group.Wait()
	p.logger.Info("schedule poller stopped")
}

// Running reports whether the polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Interval returns the configured polling cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

func (p *Poller) run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if _, err := p.svc.Refresh(ctx, domain.RefreshTriggerPoll, "poller"); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("scheduled refresh failed", "error", err)
	}
}
