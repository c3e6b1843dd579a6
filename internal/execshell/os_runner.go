package execshell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const environmentAssignmentSeparatorConstant = "="

// OSCommandRunner runs commands as operating system processes.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner.
func NewOSCommandRunner() OSCommandRunner {
	return OSCommandRunner{}
}

// Run starts the process, waits for it, and reports its output and exit code. A non-zero exit is
// reported through ExecutionResult.ExitCode; an error is returned only when the process could not run.
func (runner OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		process.Dir = workingDirectory
	}
	if len(command.Details.EnvironmentVariables) > 0 {
		process.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	}
	if command.Details.StandardInput != nil {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	process.Stdout = teeWriter(&standardOutput, command.Details.OutputStream)
	process.Stderr = teeWriter(&standardError, command.Details.ErrorStream)

	runError := process.Run()
	result := ExecutionResult{
		StandardOutput: standardOutput.String(),
		StandardError:  standardError.String(),
	}
	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) && exitError.ExitCode() >= 0 {
		result.ExitCode = exitError.ExitCode()
		return result, nil
	}
	return result, runError
}

func teeWriter(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}

func mergeEnvironment(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	for _, assignment := range base {
		separatorIndex := strings.Index(assignment, environmentAssignmentSeparatorConstant)
		if separatorIndex > 0 {
			if _, overridden := overrides[assignment[:separatorIndex]]; overridden {
				continue
			}
		}
		merged = append(merged, assignment)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		merged = append(merged, name+environmentAssignmentSeparatorConstant+overrides[name])
	}
	return merged
}
