package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

const (
	configNotFoundMessageConstant              = "Unable to find CI configuration"
	configNotFoundWithLocationTemplateConstant = "Unable to find CI configuration in %s"
	malformedConfigTemplateConstant            = "malformed CI configuration %s: %s"
	malformedConfigWithCauseTemplateConstant   = "malformed CI configuration %s: %s: %v"
	taskFailedMessageConstant                  = "Failed"
	taskFailedDetailTemplateConstant           = "check %q failed"
	anonymousTaskLabelConstant                 = "(unnamed)"
)

// ErrConfigNotFound indicates that no recognizable CI configuration was located.
var ErrConfigNotFound = errors.New(configNotFoundMessageConstant)

// ConfigNotFoundError reports the directory that was searched for CI configuration.
type ConfigNotFoundError struct {
	RepositoryRoot string
}

// Error describes the missing configuration without the searched location.
func (notFoundError ConfigNotFoundError) Error() string {
	return configNotFoundMessageConstant
}

// Detail describes the missing configuration including the searched directory.
func (notFoundError ConfigNotFoundError) Detail() string {
	if len(strings.TrimSpace(notFoundError.RepositoryRoot)) == 0 {
		return configNotFoundMessageConstant
	}
	return fmt.Sprintf(configNotFoundWithLocationTemplateConstant, notFoundError.RepositoryRoot)
}

// Is reports equivalence with ErrConfigNotFound.
func (notFoundError ConfigNotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// MalformedConfigError indicates a located file does not parse into a workflow definition.
type MalformedConfigError struct {
	SourceIdentifier string
	Reason           string
	Cause            error
}

// Error names the offending source and the reason it was rejected.
func (malformedError MalformedConfigError) Error() string {
	if malformedError.Cause != nil {
		return fmt.Sprintf(malformedConfigWithCauseTemplateConstant, malformedError.SourceIdentifier, malformedError.Reason, malformedError.Cause)
	}
	return fmt.Sprintf(malformedConfigTemplateConstant, malformedError.SourceIdentifier, malformedError.Reason)
}

// Unwrap exposes the underlying decoding error when present.
func (malformedError MalformedConfigError) Unwrap() error {
	return malformedError.Cause
}

// TaskFailedError reports the first scheduled task whose process exited non-zero or could not launch.
type TaskFailedError struct {
	Task  TaskDefinition
	Cause error
}

// Error returns the generic failure message; task details are available through Detail.
func (failedError TaskFailedError) Error() string {
	return taskFailedMessageConstant
}

// Detail describes which task failed.
func (failedError TaskFailedError) Detail() string {
	label := failedError.Task.DisplayName()
	if len(label) == 0 {
		label = anonymousTaskLabelConstant
	}
	return fmt.Sprintf(taskFailedDetailTemplateConstant, label)
}

// Unwrap exposes the process failure.
func (failedError TaskFailedError) Unwrap() error {
	return failedError.Cause
}
