package domain

// ScheduleViewKind discriminates the primary section of a resolved view.
type ScheduleViewKind string

const (
	// ScheduleViewBackendError: the repository field carried a backend error.
	ScheduleViewBackendError ScheduleViewKind = "BACKEND_ERROR"
	// ScheduleViewStatesError: the job-states field carried a backend error
	// while the repository itself was healthy.
	ScheduleViewStatesError ScheduleViewKind = "STATES_ERROR"
	// ScheduleViewRepositoryMissing: no repository matched the selector.
	ScheduleViewRepositoryMissing ScheduleViewKind = "REPOSITORY_MISSING"
	// ScheduleViewEmpty: the repository loaded but defines no schedules.
	ScheduleViewEmpty ScheduleViewKind = "EMPTY"
	// ScheduleViewTable: the repository loaded with at least one schedule.
	ScheduleViewTable ScheduleViewKind = "TABLE"
)

// ScheduleView is the resolved display plan for one query result: exactly one
// primary section, plus an unloadable-states addendum that renders alongside
// any primary section when present.
type ScheduleView struct {
	Kind       ScheduleViewKind
	Message    string               // BACKEND_ERROR and STATES_ERROR only
	Repository *RepositorySchedules // TABLE only; schedules in orchestrator order
	Scheduler  SchedulerOutcome     // TABLE only; passed through for the timezone note
	Unloadable []JobState           // set whenever states loaded non-empty, any Kind
}

// HasUnloadable reports whether the unloadable addendum is attached.
func (v ScheduleView) HasUnloadable() bool { return len(v.Unloadable) > 0 }

// ResolveScheduleView classifies one query result into its display plan.
//
// Primary section, first match wins:
//
//	repository error > job-states error > repository missing > empty > table
//
// A repository-level error masks a simultaneous job-states error.
//
// The unloadable addendum is independent of the primary section: it is
// attached if and only if the job-states field loaded with a non-empty list.
// When the job-states field errored instead, there is nothing to attach and
// the error itself becomes the primary section (unless the repository already
// errored).
//
// Pure: no I/O, no clock, no mutation of res. Identical input yields an
// identical view. Every valid input maps to exactly one primary section.
func ResolveScheduleView(res ScheduleQueryResult) ScheduleView {
	var unloadable []JobState
	if res.JobStates.Kind == JobStatesLoaded && len(res.JobStates.States) > 0 {
		unloadable = res.JobStates.States
	}

	switch {
	case res.Repository.Kind == RepositoryError:
		return ScheduleView{
			Kind:       ScheduleViewBackendError,
			Message:    res.Repository.Err.Message,
			Unloadable: unloadable,
		}
	case res.JobStates.Kind == JobStatesError:
		return ScheduleView{
			Kind:    ScheduleViewStatesError,
			Message: res.JobStates.Err.Message,
		}
	case res.Repository.Kind == RepositoryNotFound:
		return ScheduleView{
			Kind:       ScheduleViewRepositoryMissing,
			Unloadable: unloadable,
		}
	case len(res.Repository.Repository.Schedules) == 0:
		return ScheduleView{
			Kind:       ScheduleViewEmpty,
			Unloadable: unloadable,
		}
	default:
		return ScheduleView{
			Kind:       ScheduleViewTable,
			Repository: res.Repository.Repository,
			Scheduler:  res.Scheduler,
			Unloadable: unloadable,
		}
	}
}
