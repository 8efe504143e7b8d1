package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryOutcome_Validate(t *testing.T) {
	tests := []struct {
		name    string
		outcome RepositoryOutcome
		wantErr bool
		errMsg  string
	}{
		{
			name:    "loaded with repository",
			outcome: loadedRepo(dailySchedule),
			wantErr: false,
		},
		{
			name:    "error with payload",
			outcome: repoError("import failed"),
			wantErr: false,
		},
		{
			name:    "not found without payload",
			outcome: repoNotFound(),
			wantErr: false,
		},
		{
			name:    "loaded missing repository payload",
			outcome: RepositoryOutcome{Kind: RepositoryLoaded},
			wantErr: true,
			errMsg:  "requires repository payload",
		},
		{
			name: "loaded with stray error payload",
			outcome: RepositoryOutcome{
				Kind:       RepositoryLoaded,
				Repository: &RepositorySchedules{Name: "analytics"},
				Err:        &BackendError{Message: "boom"},
			},
			wantErr: true,
			errMsg:  "requires repository payload",
		},
		{
			name:    "error missing payload",
			outcome: RepositoryOutcome{Kind: RepositoryError},
			wantErr: true,
			errMsg:  "requires error payload",
		},
		{
			name: "not found with stray payload",
			outcome: RepositoryOutcome{
				Kind: RepositoryNotFound,
				Err:  &BackendError{Message: "boom"},
			},
			wantErr: true,
			errMsg:  "carries no payload",
		},
		{
			name:    "unknown kind",
			outcome: RepositoryOutcome{Kind: "SOMETHING_NEW"},
			wantErr: true,
			errMsg:  "unknown repository outcome kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSchedulerOutcome_Validate(t *testing.T) {
	tests := []struct {
		name    string
		outcome SchedulerOutcome
		wantErr bool
	}{
		{name: "running with info", outcome: schedulerRunning(), wantErr: false},
		{name: "not defined bare", outcome: SchedulerOutcome{Kind: SchedulerNotDefined}, wantErr: false},
		{name: "error with payload", outcome: SchedulerOutcome{Kind: SchedulerError, Err: &BackendError{Message: "down"}}, wantErr: false},
		{name: "running without info", outcome: SchedulerOutcome{Kind: SchedulerRunning}, wantErr: true},
		{name: "not defined with stray info", outcome: SchedulerOutcome{Kind: SchedulerNotDefined, Info: &SchedulerInfo{}}, wantErr: true},
		{name: "error without payload", outcome: SchedulerOutcome{Kind: SchedulerError}, wantErr: true},
		{name: "unknown kind", outcome: SchedulerOutcome{Kind: "WAT"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Validate()
			if tt.wantErr {
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestJobStatesOutcome_Validate(t *testing.T) {
	tests := []struct {
		name    string
		outcome JobStatesOutcome
		wantErr bool
	}{
		{name: "loaded empty", outcome: statesLoaded(), wantErr: false},
		{name: "loaded with states", outcome: statesLoaded(orphanState), wantErr: false},
		{name: "error with payload", outcome: statesError("boom"), wantErr: false},
		{name: "loaded with stray error", outcome: JobStatesOutcome{Kind: JobStatesLoaded, Err: &BackendError{Message: "boom"}}, wantErr: true},
		{name: "error with stray states", outcome: JobStatesOutcome{Kind: JobStatesError, States: []JobState{orphanState}, Err: &BackendError{Message: "boom"}}, wantErr: true},
		{name: "error without payload", outcome: JobStatesOutcome{Kind: JobStatesError}, wantErr: true},
		{name: "unknown kind", outcome: JobStatesOutcome{Kind: "WAT"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Validate()
			if tt.wantErr {
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestScheduleQueryResult_Validate(t *testing.T) {
	valid := ScheduleQueryResult{
		Repository: loadedRepo(dailySchedule),
		Scheduler:  schedulerRunning(),
		JobStates:  statesLoaded(),
	}
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.Scheduler = SchedulerOutcome{Kind: SchedulerRunning}
	require.Error(t, invalid.Validate())
}

func TestRepositorySelector_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sel     RepositorySelector
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid",
			sel:     RepositorySelector{RepositoryName: "analytics", LocationName: "prod"},
			wantErr: false,
		},
		{
			name:    "missing repository name",
			sel:     RepositorySelector{LocationName: "prod"},
			wantErr: true,
			errMsg:  "repository_name is required",
		},
		{
			name:    "missing location name",
			sel:     RepositorySelector{RepositoryName: "analytics"},
			wantErr: true,
			errMsg:  "repository_location_name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRepositorySelector_String(t *testing.T) {
	sel := RepositorySelector{RepositoryName: "analytics", LocationName: "prod"}
	assert.Equal(t, "analytics@prod", sel.String())
}
