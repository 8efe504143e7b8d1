package orchestrator

import "flowdeck/internal/domain"

// Wire shapes for the schedules query. GraphQL inline fragments merge into
// one JSON object per union, so each wire struct carries every variant's
// fields and __typename picks which ones are meaningful.

type schedulesQueryData struct {
	RepositoryOrError          repositoryOrErrorWire `json:"repositoryOrError"`
	Scheduler                  schedulerWire         `json:"scheduler"`
	UnloadableJobStatesOrError jobStatesWire         `json:"unloadableJobStatesOrError"`
}

type repositoryOrErrorWire struct {
	Typename string `json:"__typename"`
	Name     string `json:"name"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Schedules []scheduleWire `json:"schedules"`
	Message   string         `json:"message"`
	Stack     []string       `json:"stack"`
}

type scheduleWire struct {
	Name              string `json:"name"`
	CronSchedule      string `json:"cronSchedule"`
	PipelineName      string `json:"pipelineName"`
	ExecutionTimezone string `json:"executionTimezone"`
	Description       string `json:"description"`
	ScheduleState     struct {
		Status string `json:"status"`
	} `json:"scheduleState"`
}

type schedulerWire struct {
	Typename       string   `json:"__typename"`
	SchedulerClass string   `json:"schedulerClass"`
	Message        string   `json:"message"`
	Stack          []string `json:"stack"`
}

type jobStatesWire struct {
	Typename string         `json:"__typename"`
	Results  []jobStateWire `json:"results"`
	Message  string         `json:"message"`
	Stack    []string       `json:"stack"`
}

type jobStateWire struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	JobType          string `json:"jobType"`
	Status           string `json:"status"`
	RepositoryOrigin struct {
		RepositoryName         string `json:"repositoryName"`
		RepositoryLocationName string `json:"repositoryLocationName"`
	} `json:"repositoryOrigin"`
}

// decodeScheduleQuery maps the wire data onto domain outcomes. Unknown
// __typename values fail the whole decode; a poll must never hand the
// resolver a result it cannot classify.
func decodeScheduleQuery(data schedulesQueryData) (domain.ScheduleQueryResult, error) {
	repo, err := decodeRepository(data.RepositoryOrError)
	if err != nil {
		return domain.ScheduleQueryResult{}, err
	}
	scheduler, err := decodeScheduler(data.Scheduler)
	if err != nil {
		return domain.ScheduleQueryResult{}, err
	}
	states, err := decodeJobStates(data.UnloadableJobStatesOrError)
	if err != nil {
		return domain.ScheduleQueryResult{}, err
	}

	result := domain.ScheduleQueryResult{
		Repository: repo,
		Scheduler:  scheduler,
		JobStates:  states,
	}
	if err := result.Validate(); err != nil {
		return domain.ScheduleQueryResult{}, err
	}
	return result, nil
}

func decodeRepository(w repositoryOrErrorWire) (domain.RepositoryOutcome, error) {
	switch w.Typename {
	case "Repository":
		schedules := make([]domain.Schedule, 0, len(w.Schedules))
		for _, s := range w.Schedules {
			schedules = append(schedules, domain.Schedule{
				Name:              s.Name,
				CronSchedule:      s.CronSchedule,
				JobName:           s.PipelineName,
				ExecutionTimezone: s.ExecutionTimezone,
				Description:       s.Description,
				Status:            s.ScheduleState.Status,
			})
		}
		return domain.RepositoryOutcome{
			Kind: domain.RepositoryLoaded,
			Repository: &domain.RepositorySchedules{
				Name:         w.Name,
				LocationName: w.Location.Name,
				Schedules:    schedules,
			},
		}, nil
	case "RepositoryNotFoundError":
		return domain.RepositoryOutcome{Kind: domain.RepositoryNotFound}, nil
	case "PythonError":
		return domain.RepositoryOutcome{
			Kind: domain.RepositoryError,
			Err:  &domain.BackendError{Message: w.Message, Stack: w.Stack},
		}, nil
	default:
		return domain.RepositoryOutcome{}, domain.ErrUpstream("unexpected repositoryOrError type %q", w.Typename)
	}
}

func decodeScheduler(w schedulerWire) (domain.SchedulerOutcome, error) {
	switch w.Typename {
	case "Scheduler":
		return domain.SchedulerOutcome{
			Kind: domain.SchedulerRunning,
			Info: &domain.SchedulerInfo{Class: w.SchedulerClass},
		}, nil
	case "SchedulerNotDefinedError":
		return domain.SchedulerOutcome{Kind: domain.SchedulerNotDefined}, nil
	case "PythonError":
		return domain.SchedulerOutcome{
			Kind: domain.SchedulerError,
			Err:  &domain.BackendError{Message: w.Message, Stack: w.Stack},
		}, nil
	default:
		return domain.SchedulerOutcome{}, domain.ErrUpstream("unexpected scheduler type %q", w.Typename)
	}
}

func decodeJobStates(w jobStatesWire) (domain.JobStatesOutcome, error) {
	switch w.Typename {
	case "JobStates":
		states := make([]domain.JobState, 0, len(w.Results))
		for _, r := range w.Results {
			origin := ""
			if r.RepositoryOrigin.RepositoryName != "" {
				origin = r.RepositoryOrigin.RepositoryName + "@" + r.RepositoryOrigin.RepositoryLocationName
			}
			states = append(states, domain.JobState{
				ID:               r.ID,
				Name:             r.Name,
				JobType:          r.JobType,
				Status:           r.Status,
				RepositoryOrigin: origin,
			})
		}
		return domain.JobStatesOutcome{Kind: domain.JobStatesLoaded, States: states}, nil
	case "PythonError":
		return domain.JobStatesOutcome{
			Kind: domain.JobStatesError,
			Err:  &domain.BackendError{Message: w.Message, Stack: w.Stack},
		}, nil
	default:
		return domain.JobStatesOutcome{}, domain.ErrUpstream("unexpected unloadableJobStatesOrError type %q", w.Typename)
	}
}
