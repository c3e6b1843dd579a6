package pipeline

import (
	"time"
)

// ExecutionOutcome aggregates the results of running a task list.
type ExecutionOutcome struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Scheduled  TaskList
	Succeeded  []TaskDefinition
	FailedTask *TaskDefinition
	Failure    error
}

// Success reports whether every scheduled task completed successfully.
func (outcome ExecutionOutcome) Success() bool {
	return outcome.FailedTask == nil && outcome.Failure == nil
}

// NotStarted returns the scheduled tasks that never ran because of an earlier failure.
func (outcome ExecutionOutcome) NotStarted() []TaskDefinition {
	attempted := len(outcome.Succeeded)
	if outcome.FailedTask != nil {
		attempted++
	}
	if attempted >= len(outcome.Scheduled) {
		return nil
	}
	remaining := make([]TaskDefinition, len(outcome.Scheduled)-attempted)
	copy(remaining, outcome.Scheduled[attempted:])
	return remaining
}
