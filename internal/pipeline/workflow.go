// Package pipeline normalizes hosted CI descriptors into runnable checks, decides which of them apply
// to the local repository, and executes the resulting task list with fail-fast semantics.
package pipeline

import (
	"strings"
)

// EventName identifies a conceptual trigger event.
type EventName string

// Supported trigger events.
const (
	// EventDirectUpdate describes a plain push to a branch.
	EventDirectUpdate EventName = EventName("push")
	// EventProposedChange describes an update delivered as a pull or merge request.
	EventProposedChange EventName = EventName("pull_request")
	// EventAlways marks a rule that matches regardless of context.
	EventAlways EventName = EventName("always")
)

// RepositoryContext captures the local facts used to resolve workflow applicability.
type RepositoryContext struct {
	CurrentBranch       string
	HasConfiguredRemote bool
}

// TriggerRule gates a workflow on one event and an optional branch restriction.
// A nil BranchFilter matches every branch.
type TriggerRule struct {
	Event        EventName
	BranchFilter []string
}

// MatchesBranch reports whether the rule accepts the provided branch name.
func (rule TriggerRule) MatchesBranch(branchName string) bool {
	if rule.BranchFilter == nil {
		return true
	}
	trimmedBranch := strings.TrimSpace(branchName)
	for _, candidate := range rule.BranchFilter {
		if candidate == trimmedBranch {
			return true
		}
	}
	return false
}

// TaskDefinition is one normalized executable check.
type TaskDefinition struct {
	Name     string
	Command  string
	Position int
}

// DisplayName returns the task name, or an empty string for anonymous tasks.
func (definition TaskDefinition) DisplayName() string {
	return strings.TrimSpace(definition.Name)
}

// WorkflowDefinition is one parsed CI configuration file.
type WorkflowDefinition struct {
	SourceIdentifier string
	Triggers         []TriggerRule
	Tasks            []TaskDefinition
}

// lookupTrigger returns the first rule registered for the event.
func (workflow WorkflowDefinition) lookupTrigger(event EventName) (TriggerRule, bool) {
	for _, rule := range workflow.Triggers {
		if rule.Event == event {
			return rule, true
		}
	}
	return TriggerRule{}, false
}

// TaskList is the deduplicated, ordered sequence of tasks scheduled for a run.
type TaskList []TaskDefinition

// Commands returns the command strings of the list in order.
func (list TaskList) Commands() []string {
	commands := make([]string, 0, len(list))
	for _, task := range list {
		commands = append(commands, task.Command)
	}
	return commands
}
