package execshell

import (
	"fmt"
	"strings"
)

const (
	startedMessageTemplateConstant          = "Running %s"
	completedMessageTemplateConstant        = "Completed %s"
	failedMessageTemplateConstant           = "%s failed with exit code %d"
	failedWithDetailMessageTemplateConstant = "%s failed with exit code %d: %s"
	executionFailedMessageTemplateConstant  = "%s failed: %v"
	workingDirectorySuffixTemplateConstant  = "%s (in %s)"
	maximumDescribedArgumentLengthConstant  = 80
	truncatedArgumentSuffixConstant         = "..."
)

// CommandMessageFormatter renders human-readable command lifecycle messages.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, formatter.describe(command))
}

// BuildSuccessMessage describes a command that exited with status zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(completedMessageTemplateConstant, formatter.describe(command))
}

// BuildFailureMessage describes a command that exited with a non-zero status.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	detail := strings.TrimSpace(result.StandardError)
	if len(detail) == 0 {
		return fmt.Sprintf(failedMessageTemplateConstant, formatter.describe(command), result.ExitCode)
	}
	firstLine := strings.TrimSpace(strings.SplitN(detail, "\n", 2)[0])
	return fmt.Sprintf(failedWithDetailMessageTemplateConstant, formatter.describe(command), result.ExitCode, firstLine)
}

// BuildExecutionFailureMessage describes a command that could not be run at all.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, cause error) string {
	return fmt.Sprintf(executionFailedMessageTemplateConstant, formatter.describe(command), cause)
}

func (formatter CommandMessageFormatter) describe(command ShellCommand) string {
	segments := []string{string(command.Name)}
	for _, argument := range command.Details.Arguments {
		singleLine := strings.Join(strings.Fields(argument), " ")
		if len(singleLine) > maximumDescribedArgumentLengthConstant {
			singleLine = singleLine[:maximumDescribedArgumentLengthConstant] + truncatedArgumentSuffixConstant
		}
		segments = append(segments, singleLine)
	}
	description := strings.Join(segments, " ")

	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return description
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, description, workingDirectory)
}
