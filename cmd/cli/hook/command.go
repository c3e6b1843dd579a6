package hook

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/belay/internal/gitrepo"
	"github.com/tyemirov/belay/internal/hooks"
	rootutils "github.com/tyemirov/belay/internal/utils/roots"
)

const (
	commandUseConstant              = "hook"
	commandShortDescriptionConstant = "Install a git hook that runs the checks"
	commandLongDescriptionConstant  = "hook writes .git/hooks/pre-commit or .git/hooks/pre-push so the checks run before every commit or push. An existing hook of the same type is replaced."
	commitCommandShortDescription   = "Run the checks before every commit"
	pushCommandShortDescription     = "Run the checks before every push"
	hookCreatedTemplateConstant     = "Created hook `%s`\n"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandConfiguration captures configuration values for hook installation.
type CommandConfiguration struct {
	Command string `mapstructure:"command"`
}

// DefaultCommandConfiguration returns the defaults used when no configuration is supplied.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// Sanitize trims textual configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Command = strings.TrimSpace(configuration.Command)
	return sanitized
}

// CommandBuilder assembles the hook command and its commit and push subcommands.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    func() CommandConfiguration
	WorkingDirectoryProvider rootutils.WorkingDirectoryProvider
}

// Build constructs the hook command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	command.AddCommand(builder.buildInstallCommand(hooks.HookTypeCommit, commitCommandShortDescription))
	command.AddCommand(builder.buildInstallCommand(hooks.HookTypePush, pushCommandShortDescription))
	return command, nil
}

func (builder *CommandBuilder) buildInstallCommand(hookType hooks.HookType, shortDescription string) *cobra.Command {
	return &cobra.Command{
		Use:   string(hookType),
		Short: shortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.install(command, hookType)
		},
	}
}

func (builder *CommandBuilder) install(command *cobra.Command, hookType hooks.HookType) error {
	startDirectory, startDirectoryError := rootutils.Resolve(command, builder.WorkingDirectoryProvider)
	if startDirectoryError != nil {
		return startDirectoryError
	}

	repositoryRoot, rootError := gitrepo.FindRepositoryRoot(startDirectory)
	if rootError != nil {
		return rootError
	}

	installer, installerError := hooks.NewInstaller(builder.resolveLogger(), builder.resolveConfiguration().Command)
	if installerError != nil {
		return installerError
	}

	hookPath, installError := installer.Install(repositoryRoot, hookType)
	if installError != nil {
		return installError
	}

	fmt.Fprintf(command.OutOrStdout(), hookCreatedTemplateConstant, hookPath)
	return nil
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
