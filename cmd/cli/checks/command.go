package checks

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/belay/internal/execshell"
	"github.com/tyemirov/belay/internal/gitrepo"
	"github.com/tyemirov/belay/internal/pipeline"
	"github.com/tyemirov/belay/internal/utils"
	flagutils "github.com/tyemirov/belay/internal/utils/flags"
	rootutils "github.com/tyemirov/belay/internal/utils/roots"
)

const (
	commandUseConstant                 = "run"
	commandShortDescriptionConstant    = "Run the repository's CI checks locally"
	commandLongDescriptionConstant     = "run locates the repository's CI configuration, keeps the workflows that apply to the current branch and remote setup, and runs their steps in order, stopping at the first failure."
	namedPlanEntryTemplateConstant     = "Check '%s': %s\n"
	anonymousPlanEntryTemplateConstant = "Check: %s\n"
	runStartedLogMessageConstant       = "checks starting"
	repositoryRootFieldNameConstant    = "repository_root"
	descriptorCountFieldNameConstant   = "descriptor_count"
	shellFieldNameConstant             = "shell"
	dryRunFieldNameConstant            = "dry_run"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the command that runs the repository's checks.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandRunner                execshell.CommandRunner
	WorkingDirectoryProvider     rootutils.WorkingDirectoryProvider
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.Run,
	}
	flagutils.EnsureShellFlag(command, "")
	return command, nil
}

// Run discovers, plans, and executes the checks of the repository containing the start directory.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	executionFlags, _ := flagutils.ResolveExecutionFlags(command)

	dryRun := configuration.DryRun
	if executionFlags.DryRunSet {
		dryRun = executionFlags.DryRun
	}
	shell := configuration.Shell
	if executionFlags.ShellSet {
		shell = executionFlags.Shell
	}

	startDirectory, startDirectoryError := rootutils.Resolve(command, builder.WorkingDirectoryProvider)
	if startDirectoryError != nil {
		return startDirectoryError
	}

	repositoryRoot, rootError := gitrepo.FindRepositoryRoot(startDirectory)
	if rootError != nil {
		return rootError
	}

	descriptors, discoveryError := pipeline.DiscoverDescriptors(repositoryRoot)
	if discoveryError != nil {
		return discoveryError
	}

	logger := builder.resolveLogger()
	logger.Info(runStartedLogMessageConstant,
		zap.String(repositoryRootFieldNameConstant, repositoryRoot),
		zap.Int(descriptorCountFieldNameConstant, len(descriptors)),
		zap.String(shellFieldNameConstant, shell),
		zap.Bool(dryRunFieldNameConstant, dryRun),
	)

	shellExecutor, executorError := execshell.NewShellExecutor(logger, builder.resolveCommandRunner(), builder.humanReadableLogging())
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return managerError
	}

	executionContext := resolveContext(command)
	repositoryContext, contextError := repositoryManager.ResolveContext(executionContext, repositoryRoot)
	if contextError != nil {
		return contextError
	}

	output, errorOutput := resolveOutputs(command)
	taskExecutor, taskExecutorError := pipeline.NewSequentialExecutor(logger, shellExecutor, pipeline.ExecutorOptions{
		Output:           utils.NewFlushingWriter(output),
		Errors:           utils.NewFlushingWriter(errorOutput),
		WorkingDirectory: repositoryRoot,
		Shell:            execshell.CommandName(shell),
	})
	if taskExecutorError != nil {
		return taskExecutorError
	}

	service, serviceError := pipeline.NewService(logger, taskExecutor)
	if serviceError != nil {
		return serviceError
	}

	if dryRun {
		plan, planError := service.Plan(descriptors, repositoryContext)
		if planError != nil {
			return planError
		}
		writePlan(output, plan.Tasks)
		return nil
	}

	_, runError := service.Run(executionContext, descriptors, repositoryContext)
	return runError
}

func writePlan(output io.Writer, taskList pipeline.TaskList) {
	for _, task := range taskList {
		command := strings.TrimRight(task.Command, "\n")
		displayName := task.DisplayName()
		if len(displayName) == 0 {
			fmt.Fprintf(output, anonymousPlanEntryTemplateConstant, command)
			continue
		}
		fmt.Fprintf(output, namedPlanEntryTemplateConstant, displayName, command)
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCommandRunner() execshell.CommandRunner {
	if builder.CommandRunner == nil {
		return execshell.NewOSCommandRunner()
	}
	return builder.CommandRunner
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func resolveContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}

func resolveOutputs(command *cobra.Command) (io.Writer, io.Writer) {
	if command == nil {
		return os.Stdout, os.Stderr
	}
	return command.OutOrStdout(), command.ErrOrStderr()
}
