package orchestrator

// scheduleJobType filters unloadable instigator states to schedule-kind jobs;
// sensors have their own page.
const scheduleJobType = "SCHEDULE"

// schedulesQuery is the one query this console runs: the repository's
// schedules, the scheduler daemon status, and any unloadable schedule states.
// Each root field is a union discriminated by __typename.
const schedulesQuery = `
query FlowdeckSchedulesQuery($repositorySelector: RepositorySelector!, $jobType: InstigationType!) {
  repositoryOrError(repositorySelector: $repositorySelector) {
    __typename
    ... on Repository {
      name
      location {
        name
      }
      schedules {
        name
        cronSchedule
        pipelineName
        executionTimezone
        description
        scheduleState {
          status
        }
      }
    }
    ... on RepositoryNotFoundError {
      message
    }
    ... on PythonError {
      message
      stack
    }
  }
  scheduler {
    __typename
    ... on Scheduler {
      schedulerClass
    }
    ... on SchedulerNotDefinedError {
      message
    }
    ... on PythonError {
      message
      stack
    }
  }
  unloadableJobStatesOrError(jobType: $jobType) {
    __typename
    ... on JobStates {
      results {
        id
        name
        jobType
        status
        repositoryOrigin {
          repositoryName
          repositoryLocationName
        }
      }
    }
    ... on PythonError {
      message
      stack
    }
  }
}
`
