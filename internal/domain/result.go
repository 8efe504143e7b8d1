package domain

// The orchestrator answers the schedules query with three independent
// result fields. Each is a closed union: exactly one variant is set.
// Decoding enforces that; resolution can then switch exhaustively.

// BackendError is a failure the orchestrator reports inside an otherwise
// successful response, with the upstream message and optional stack frames.
type BackendError struct {
	Message string
	Stack   []string
}

// RepositoryOutcomeKind discriminates the repository result field.
type RepositoryOutcomeKind string

const (
	RepositoryLoaded   RepositoryOutcomeKind = "LOADED"
	RepositoryError    RepositoryOutcomeKind = "ERROR"
	RepositoryNotFound RepositoryOutcomeKind = "NOT_FOUND"
)

// RepositoryOutcome is the repository result field: a loaded repository, a
// backend error, or not-found for the requested selector.
type RepositoryOutcome struct {
	Kind       RepositoryOutcomeKind
	Repository *RepositorySchedules // set when Kind == RepositoryLoaded
	Err        *BackendError        // set when Kind == RepositoryError
}

// Validate checks that exactly the payload matching the kind is set.
func (o RepositoryOutcome) Validate() error {
	switch o.Kind {
	case RepositoryLoaded:
		if o.Repository == nil || o.Err != nil {
			return ErrValidation("repository outcome %s requires repository payload only", o.Kind)
		}
	case RepositoryError:
		if o.Err == nil || o.Repository != nil {
			return ErrValidation("repository outcome %s requires error payload only", o.Kind)
		}
	case RepositoryNotFound:
		if o.Repository != nil || o.Err != nil {
			return ErrValidation("repository outcome %s carries no payload", o.Kind)
		}
	default:
		return ErrValidation("unknown repository outcome kind %q", string(o.Kind))
	}
	return nil
}

// SchedulerOutcomeKind discriminates the scheduler result field.
type SchedulerOutcomeKind string

const (
	SchedulerRunning    SchedulerOutcomeKind = "RUNNING"
	SchedulerNotDefined SchedulerOutcomeKind = "NOT_DEFINED"
	SchedulerError      SchedulerOutcomeKind = "ERROR"
)

// SchedulerInfo describes the running scheduler daemon.
type SchedulerInfo struct {
	Class string
}

// SchedulerOutcome is the scheduler result field. View resolution never
// branches on it; it is carried through for presentation.
type SchedulerOutcome struct {
	Kind SchedulerOutcomeKind
	Info *SchedulerInfo // set when Kind == SchedulerRunning
	Err  *BackendError  // set when Kind == SchedulerError
}

// Validate checks that exactly the payload matching the kind is set.
func (o SchedulerOutcome) Validate() error {
	switch o.Kind {
	case SchedulerRunning:
		if o.Info == nil || o.Err != nil {
			return ErrValidation("scheduler outcome %s requires info payload only", o.Kind)
		}
	case SchedulerNotDefined:
		if o.Info != nil || o.Err != nil {
			return ErrValidation("scheduler outcome %s carries no payload", o.Kind)
		}
	case SchedulerError:
		if o.Err == nil || o.Info != nil {
			return ErrValidation("scheduler outcome %s requires error payload only", o.Kind)
		}
	default:
		return ErrValidation("unknown scheduler outcome kind %q", string(o.Kind))
	}
	return nil
}

// JobStatesOutcomeKind discriminates the unloadable job-states result field.
type JobStatesOutcomeKind string

const (
	JobStatesLoaded JobStatesOutcomeKind = "LOADED"
	JobStatesError  JobStatesOutcomeKind = "ERROR"
)

// JobStatesOutcome is the unloadable job-states result field: the list of
// states whose defining code is gone, or a backend error.
type JobStatesOutcome struct {
	Kind   JobStatesOutcomeKind
	States []JobState    // set when Kind == JobStatesLoaded; may be empty
	Err    *BackendError // set when Kind == JobStatesError
}

// Validate checks that exactly the payload matching the kind is set.
func (o JobStatesOutcome) Validate() error {
	switch o.Kind {
	case JobStatesLoaded:
		if o.Err != nil {
			return ErrValidation("job states outcome %s requires states payload only", o.Kind)
		}
	case JobStatesError:
		if o.Err == nil || o.States != nil {
			return ErrValidation("job states outcome %s requires error payload only", o.Kind)
		}
	default:
		return ErrValidation("unknown job states outcome kind %q", string(o.Kind))
	}
	return nil
}

// ScheduleQueryResult is one fully decoded schedules query response. Values
// are built fresh per poll and never mutated afterwards.
type ScheduleQueryResult struct {
	Repository RepositoryOutcome
	Scheduler  SchedulerOutcome
	JobStates  JobStatesOutcome
}

// Validate checks all three result fields.
func (r ScheduleQueryResult) Validate() error {
	if err := r.Repository.Validate(); err != nil {
		return err
	}
	if err := r.Scheduler.Validate(); err != nil {
		return err
	}
	return r.JobStates.Validate()
}
