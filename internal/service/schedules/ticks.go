package schedules

import (
	"time"

	"github.com/robfig/cron/v3"

	"flowdeck/internal/domain"
)

// NextTicks computes the next n evaluation times for a schedule's cron
// expression, starting strictly after from, in the schedule's execution
// timezone (UTC when unset).
func NextTicks(s domain.Schedule, from time.Time, n int) ([]time.Time, error) {
	spec, err := cron.ParseStandard(s.CronSchedule)
	if err != nil {
		return nil, domain.ErrValidation("invalid cron expression %q: %v", s.CronSchedule, err)
	}

	loc := time.UTC
	if s.ExecutionTimezone != "" {
		loc, err = time.LoadLocation(s.ExecutionTimezone)
		if err != nil {
			return nil, domain.ErrValidation("unknown execution timezone %q", s.ExecutionTimezone)
		}
	}

	ticks := make([]time.Time, 0, n)
	next := from.In(loc)
	for i := 0; i < n; i++ {
		next = spec.Next(next)
		if next.IsZero() {
			break
		}
		ticks = append(ticks, next)
	}
	return ticks, nil
}
