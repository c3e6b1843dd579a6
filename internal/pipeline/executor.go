package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tyemirov/belay/internal/execshell"
)

const (
	startingNamedTaskTemplateConstant     = "Checking '%s':\n"
	startingAnonymousTaskMessageConstant  = "Checking:\n"
	succeededTaskMessageConstant          = "Success!\n"
	executorLoggerMissingMessageConstant  = "check executor logger not configured"
	executorCommandMissingMessageConstant = "check executor shell runner not configured"
	taskListScheduledLogMessageConstant   = "check list scheduled"
	taskStartedLogMessageConstant         = "check starting"
	taskSucceededLogMessageConstant       = "check succeeded"
	taskFailedLogMessageConstant          = "check failed"
	taskCountFieldNameConstant            = "check_count"
	taskNameFieldNameConstant             = "check_name"
	taskPositionFieldNameConstant         = "check_position"
	taskDurationFieldNameConstant         = "duration"
)

var (
	// ErrExecutorLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrExecutorLoggerNotConfigured = errors.New(executorLoggerMissingMessageConstant)
	// ErrExecutorShellRunnerNotConfigured indicates the executor was constructed without a shell runner.
	ErrExecutorShellRunnerNotConfigured = errors.New(executorCommandMissingMessageConstant)
)

// ShellLineExecutor runs one line of shell text as a subprocess.
type ShellLineExecutor interface {
	ExecuteShellLine(executionContext context.Context, shell execshell.CommandName, line string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ExecutorOptions configures where progress and task output are written.
type ExecutorOptions struct {
	Output           io.Writer
	Errors           io.Writer
	WorkingDirectory string
	Shell            execshell.CommandName
}

// SequentialExecutor runs a task list one task at a time and stops at the first failure.
type SequentialExecutor struct {
	logger      *zap.Logger
	shellRunner ShellLineExecutor
	options     ExecutorOptions
	clock       func() time.Time
}

// NewSequentialExecutor constructs a SequentialExecutor.
func NewSequentialExecutor(logger *zap.Logger, shellRunner ShellLineExecutor, options ExecutorOptions) (*SequentialExecutor, error) {
	if logger == nil {
		return nil, ErrExecutorLoggerNotConfigured
	}
	if shellRunner == nil {
		return nil, ErrExecutorShellRunnerNotConfigured
	}
	if options.Output == nil {
		options.Output = io.Discard
	}
	if options.Errors == nil {
		options.Errors = options.Output
	}
	if len(options.Shell) == 0 {
		options.Shell = execshell.CommandShell
	}
	return &SequentialExecutor{
		logger:      logger,
		shellRunner: shellRunner,
		options:     options,
		clock:       time.Now,
	}, nil
}

// Execute runs the tasks in list order. The returned error is a TaskFailedError when a task fails.
func (executor *SequentialExecutor) Execute(executionContext context.Context, taskList TaskList) (ExecutionOutcome, error) {
	outcome := ExecutionOutcome{
		StartTime: executor.clock(),
		Scheduled: taskList,
	}
	executor.logger.Debug(taskListScheduledLogMessageConstant, zap.Int(taskCountFieldNameConstant, len(taskList)))

	for taskIndex := range taskList {
		task := taskList[taskIndex]
		executor.announceStart(task)

		taskStart := executor.clock()
		_, runError := executor.shellRunner.ExecuteShellLine(executionContext, executor.options.Shell, task.Command, execshell.CommandDetails{
			WorkingDirectory: executor.options.WorkingDirectory,
			OutputStream:     executor.options.Output,
			ErrorStream:      executor.options.Errors,
		})
		taskDuration := executor.clock().Sub(taskStart)

		if runError != nil {
			executor.logger.Warn(taskFailedLogMessageConstant,
				zap.String(taskNameFieldNameConstant, task.DisplayName()),
				zap.Int(taskPositionFieldNameConstant, taskIndex),
				zap.Duration(taskDurationFieldNameConstant, taskDuration),
				zap.Error(runError),
			)
			failedTask := task
			failure := TaskFailedError{Task: task, Cause: runError}
			outcome.FailedTask = &failedTask
			outcome.Failure = failure
			executor.finish(&outcome)
			return outcome, failure
		}

		fmt.Fprint(executor.options.Output, succeededTaskMessageConstant)
		executor.logger.Info(taskSucceededLogMessageConstant,
			zap.String(taskNameFieldNameConstant, task.DisplayName()),
			zap.Int(taskPositionFieldNameConstant, taskIndex),
			zap.Duration(taskDurationFieldNameConstant, taskDuration),
		)
		outcome.Succeeded = append(outcome.Succeeded, task)
	}

	executor.finish(&outcome)
	return outcome, nil
}

func (executor *SequentialExecutor) announceStart(task TaskDefinition) {
	displayName := task.DisplayName()
	if len(displayName) == 0 {
		fmt.Fprint(executor.options.Output, startingAnonymousTaskMessageConstant)
	} else {
		fmt.Fprintf(executor.options.Output, startingNamedTaskTemplateConstant, displayName)
	}
	executor.logger.Info(taskStartedLogMessageConstant, zap.String(taskNameFieldNameConstant, displayName))
}

func (executor *SequentialExecutor) finish(outcome *ExecutionOutcome) {
	outcome.EndTime = executor.clock()
	outcome.Duration = outcome.EndTime.Sub(outcome.StartTime)
}
