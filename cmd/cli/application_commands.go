package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hookcmd "github.com/tyemirov/belay/cmd/cli/hook"
)

func (application *Application) registerCommands(cobraCommand *cobra.Command) {
	if checksCommand, checksBuildError := application.checksBuilder.Build(); checksBuildError == nil {
		checksCommand.Aliases = appendUnique(checksCommand.Aliases, checksCommandAliasConstant)
		cobraCommand.AddCommand(checksCommand)
	}

	hookBuilder := hookcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: application.hookConfiguration,
	}
	if hookCommand, hookBuildError := hookBuilder.Build(); hookBuildError == nil {
		cobraCommand.AddCommand(hookCommand)
	}

	versionCommand := &cobra.Command{
		Use:           versionCommandUseNameConstant,
		Short:         versionCommandShortDescriptionConstant,
		Long:          versionCommandLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			application.printVersion(command)
			return nil
		},
	}
	cobraCommand.AddCommand(versionCommand)
}
