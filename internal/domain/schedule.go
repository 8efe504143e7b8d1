package domain

// Schedule and job-state status constants, as reported by the orchestrator.
const (
	ScheduleStatusRunning = "RUNNING"
	ScheduleStatusStopped = "STOPPED"

	JobTypeSchedule = "SCHEDULE"
	JobTypeSensor   = "SENSOR"
)

// Schedule is one schedule definition loaded from the orchestrator, in the
// order the orchestrator returned it.
type Schedule struct {
	Name              string
	CronSchedule      string
	JobName           string
	ExecutionTimezone string // empty means the scheduler default (UTC)
	Description       string
	Status            string // ScheduleStatusRunning or ScheduleStatusStopped
}

// JobState is a persisted instigator state. States whose defining code is no
// longer loadable are the ones the console surfaces separately.
type JobState struct {
	ID               string
	Name             string
	JobType          string // JobTypeSchedule or JobTypeSensor
	Status           string
	RepositoryOrigin string // human-readable origin, e.g. "repo@location"
}

// RepositorySchedules is a successfully loaded repository: its identity plus
// its schedules in orchestrator order.
type RepositorySchedules struct {
	Name         string
	LocationName string
	Schedules    []Schedule
}

// RepositorySelector identifies one repository within the orchestrator.
type RepositorySelector struct {
	RepositoryName string
	LocationName   string
}

// Validate checks that the selector is well-formed.
func (s RepositorySelector) Validate() error {
	if s.RepositoryName == "" {
		return ErrValidation("repository_name is required")
	}
	if s.LocationName == "" {
		return ErrValidation("repository_location_name is required")
	}
	return nil
}

// String renders the selector in origin form.
func (s RepositorySelector) String() string {
	return s.RepositoryName + "@" + s.LocationName
}
