package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	checkscmd "github.com/tyemirov/belay/cmd/cli/checks"
	"github.com/tyemirov/belay/internal/execshell"
	"github.com/tyemirov/belay/internal/utils"
	flagutils "github.com/tyemirov/belay/internal/utils/flags"
	"github.com/tyemirov/belay/internal/version"
)

const (
	applicationNameConstant                                          = "belay"
	applicationShortDescriptionConstant                              = "Run a repository's CI checks locally"
	applicationLongDescriptionConstant                               = "belay reads the GitHub Actions workflows and GitLab CI configuration of the current repository and runs the checks that would run in CI for the current branch, stopping at the first failure."
	configFileFlagNameConstant                                       = "config"
	configFileFlagUsageConstant                                      = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                                         = "log-level"
	logLevelFlagUsageConstant                                        = "Override the configured log level."
	logFormatFlagNameConstant                                        = "log-format"
	logFormatFlagUsageConstant                                       = "Override the configured log format (structured or console)."
	configurationInitializationFlagNameConstant                      = "init"
	configurationInitializationFlagUsageConstant                     = "Write the embedded default configuration to LOCAL (./config.yaml) or user ($HOME/.belay/config.yaml)."
	configurationInitializationDefaultScopeConstant                  = "local"
	configurationInitializationForceFlagNameConstant                 = "force"
	configurationInitializationForceFlagUsageConstant                = "Overwrite an existing configuration file when initializing."
	configurationInitializationScopeLocalConstant                    = "local"
	configurationInitializationScopeUserConstant                     = "user"
	configurationInitializationUnsupportedScopeTemplateConstant      = "unsupported initialization scope %q"
	configurationInitializationWorkingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	configurationInitializationWorkingDirectoryEmptyErrorConstant    = "working directory is empty"
	configurationInitializationHomeDirectoryErrorTemplateConstant    = "unable to determine user home directory: %w"
	configurationInitializationHomeDirectoryEmptyErrorConstant       = "user home directory is empty"
	configurationInitializationContentUnavailableErrorConstant       = "embedded configuration content is unavailable"
	configurationInitializationDirectoryErrorTemplateConstant        = "unable to ensure configuration directory %s: %w"
	configurationInitializationExistingFileTemplateConstant          = "configuration file already exists at %s (use --force to overwrite)"
	configurationInitializationExistingDirectoryTemplateConstant     = "configuration path %s is a directory"
	configurationInitializationDirectoryConflictTemplateConstant     = "configuration directory path %s is not a directory"
	configurationInitializationWriteErrorTemplateConstant            = "unable to write configuration file %s: %w"
	configurationInitializationSuccessMessageConstant                = "configuration file created"
	commonConfigurationKeyConstant                                   = "common"
	commonLogLevelConfigKeyConstant                                  = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                                 = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant                                        = "BELAY"
	configurationNameConstant                                        = "config"
	configurationTypeConstant                                        = "yaml"
	configurationFileNameConstant                                    = configurationNameConstant + "." + configurationTypeConstant
	configurationDirectoryPermissionConstant                         = 0o755
	configurationFilePermissionConstant                              = 0o600
	configurationInitializedMessageConstant                          = "configuration initialized"
	configurationLogLevelFieldConstant                               = "log_level"
	configurationLogFormatFieldConstant                              = "log_format"
	configurationFileFieldConstant                                   = "config_file"
	xdgConfigHomeEnvironmentVariableConstant                         = "XDG_CONFIG_HOME"
	configurationLoadErrorTemplateConstant                           = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                              = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                                  = "unable to flush logger: %w"
	configurationInitializedConsoleTemplateConstant                  = "%s | log level=%s | log format=%s | config file=%s"
	loggerNotInitializedMessageConstant                              = "logger not initialized"
	defaultConfigurationSearchPathConstant                           = "."
	userConfigurationDirectoryNameConstant                           = ".belay"
	configurationSearchPathEnvironmentVariableConstant               = "BELAY_CONFIG_SEARCH_PATH"
	versionFlagNameConstant                                          = "version"
	versionFlagUsageConstant                                         = "Print the application version and exit"
	versionOutputTemplateConstant                                    = "belay version: %s\n"
	versionCommandUseNameConstant                                    = "version"
	versionCommandShortDescriptionConstant                           = "Print the belay version"
	versionCommandLongDescriptionConstant                            = "version prints the current belay release identifier."
	checksCommandAliasConstant                                       = "check"
)

type loggerOutputsFactory interface {
	CreateLoggerOutputs(utils.LogLevel, utils.LogFormat) (utils.LoggerOutputs, error)
}

type configurationInitializationPlan struct {
	DirectoryPath string
	FilePath      string
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand                       *cobra.Command
	configurationLoader               *utils.ConfigurationLoader
	loggerFactory                     loggerOutputsFactory
	logger                            *zap.Logger
	consoleLogger                     *zap.Logger
	configuration                     ApplicationConfiguration
	configurationMetadata             utils.LoadedConfiguration
	configurationFilePath             string
	logLevelFlagValue                 string
	logFormatFlagValue                string
	commandContextAccessor            utils.CommandContextAccessor
	repositoryFlagValues              *flagutils.RepositoryFlagValues
	checksBuilder                     *checkscmd.CommandBuilder
	configurationInitializationScope  string
	configurationInitializationForced bool
	versionFlag                       bool
	versionResolver                   func(context.Context) string
	exitFunction                      func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}
	application.versionResolver = application.resolveVersion
	application.exitFunction = os.Exit

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		application.resolveConfigurationSearchPaths(),
	)

	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)

	application.checksBuilder = &checkscmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.checksConfiguration,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if initializationError := application.initializeConfiguration(command); initializationError != nil {
				return initializationError
			}

			versionRequested := application.versionFlag
			if command != nil {
				if flagValue, flagChanged, flagError := flagutils.BoolFlag(command, versionFlagNameConstant); flagError == nil && flagChanged {
					versionRequested = flagValue
				}
			}

			if versionRequested {
				application.printVersion(command)
				application.exitFunction(0)
			}

			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.configurationInitializationScope,
		configurationInitializationFlagNameConstant,
		configurationInitializationDefaultScopeConstant,
		configurationInitializationFlagUsageConstant,
	)
	cobraCommand.PersistentFlags().BoolVar(
		&application.configurationInitializationForced,
		configurationInitializationForceFlagNameConstant,
		false,
		configurationInitializationForceFlagUsageConstant,
	)

	application.repositoryFlagValues = flagutils.BindRepositoryFlag(cobraCommand, flagutils.RepositoryFlagValues{})

	flagutils.BindExecutionFlags(
		cobraCommand,
		flagutils.ExecutionDefaults{},
		flagutils.ExecutionFlagDefinitions{
			DryRun: flagutils.ExecutionFlagDefinition{Name: flagutils.DryRunFlagName, Usage: flagutils.DryRunFlagUsage, Enabled: true},
		},
	)
	flagutils.EnsureShellFlag(cobraCommand, "")

	cobraCommand.PersistentFlags().BoolVar(&application.versionFlag, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.registerCommands(cobraCommand)
	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	normalizedArguments := flagutils.NormalizeToggleArguments(os.Args[1:])
	normalizedArguments = normalizeInitializationScopeArguments(normalizedArguments)
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func normalizeInitializationScopeArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(arguments))
	flagPrefix := "--" + configurationInitializationFlagNameConstant
	defaultArgument := fmt.Sprintf("%s=%s", flagPrefix, configurationInitializationDefaultScopeConstant)

	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]

		if strings.HasPrefix(currentArgument, flagPrefix+"=") {
			if len(strings.TrimSpace(strings.TrimPrefix(currentArgument, flagPrefix+"="))) == 0 {
				normalizedArguments = append(normalizedArguments, defaultArgument)
				continue
			}
			normalizedArguments = append(normalizedArguments, currentArgument)
			continue
		}

		if currentArgument == flagPrefix {
			nextIndex := index + 1
			if nextIndex >= len(arguments) || !isInitializationScope(arguments[nextIndex]) {
				normalizedArguments = append(normalizedArguments, defaultArgument)
				continue
			}
		}

		normalizedArguments = append(normalizedArguments, currentArgument)
	}

	return normalizedArguments
}

// isInitializationScope keeps "belay --init run" from treating the subcommand as a scope.
func isInitializationScope(candidate string) bool {
	switch strings.ToLower(strings.TrimSpace(candidate)) {
	case configurationInitializationScopeLocalConstant, configurationInitializationScopeUserConstant:
		return true
	default:
		return false
	}
}

func (application *Application) resolveConfigurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConstant))
	if len(overrideValue) == 0 {
		return append([]string{defaultConfigurationSearchPathConstant}, application.resolveUserConfigurationDirectoryPaths()...)
	}

	overridePaths := strings.FieldsFunc(overrideValue, func(candidate rune) bool {
		return candidate == os.PathListSeparator
	})

	cleanedPaths := make([]string, 0, len(overridePaths))
	for _, pathCandidate := range overridePaths {
		trimmedCandidate := strings.TrimSpace(pathCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, trimmedCandidate)
	}

	if len(cleanedPaths) == 0 {
		return []string{defaultConfigurationSearchPathConstant}
	}

	return cleanedPaths
}

func (application *Application) resolveUserConfigurationDirectoryPaths() []string {
	userConfigurationDirectoryPaths := make([]string, 0, 3)

	appendConfigurationDirectory := func(baseDirectoryPath string) {
		trimmedBaseDirectoryPath := strings.TrimSpace(baseDirectoryPath)
		if len(trimmedBaseDirectoryPath) == 0 {
			return
		}
		userConfigurationDirectoryPaths = appendUnique(
			userConfigurationDirectoryPaths,
			filepath.Join(trimmedBaseDirectoryPath, userConfigurationDirectoryNameConstant),
		)
	}

	appendConfigurationDirectory(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))

	if userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir(); userConfigurationDirectoryError == nil {
		appendConfigurationDirectory(userConfigurationBaseDirectoryPath)
	}

	if userHomeDirectoryPath, userHomeDirectoryError := os.UserHomeDir(); userHomeDirectoryError == nil {
		appendConfigurationDirectory(userHomeDirectoryPath)
	}

	return userConfigurationDirectoryPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	if application.logger == nil {
		application.logger = zap.NewNop()
	}

	application.consoleLogger = loggerOutputs.ConsoleLogger
	if application.consoleLogger == nil {
		application.consoleLogger = zap.NewNop()
	}

	application.logConfigurationInitialization()

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithExecutionFlags(updatedContext, flagutils.CollectExecutionFlags(command))
		updatedContext = application.commandContextAccessor.WithLogLevel(updatedContext, application.configuration.Common.LogLevel)
		if application.repositoryFlagValues != nil {
			updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, application.repositoryFlagValues.Path)
		}

		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// InitializeForCommand prepares application state for the provided command name without executing command logic.
func (application *Application) InitializeForCommand(commandUse string) error {
	command := &cobra.Command{Use: commandUse}
	return application.initializeConfiguration(command)
}

// ConfigFileUsed returns the configuration file path used during initialization.
func (application *Application) ConfigFileUsed() string {
	return application.configurationMetadata.ConfigFileUsed
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) logConfigurationInitialization() {
	if !strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogLevel), string(utils.LogLevelDebug)) {
		return
	}

	if application.humanReadableLoggingEnabled() {
		application.consoleLogger.Debug(fmt.Sprintf(
			configurationInitializedConsoleTemplateConstant,
			configurationInitializedMessageConstant,
			application.configuration.Common.LogLevel,
			application.configuration.Common.LogFormat,
			application.configurationMetadata.ConfigFileUsed,
		))
		return
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
}

func (application *Application) resolveVersion(executionContext context.Context) string {
	dependencies := version.Dependencies{}
	if gitExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner(), application.humanReadableLoggingEnabled()); executorError == nil {
		dependencies.GitExecutor = gitExecutor
	}

	resolved := version.Detect(executionContext, dependencies)
	trimmed := strings.TrimSpace(resolved)
	if len(trimmed) == 0 {
		return resolved
	}
	return trimmed
}

func (application *Application) printVersion(command *cobra.Command) {
	if command == nil {
		fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, application.versionResolver(context.Background()))
		return
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, application.versionResolver(executionContext))
}

func appendUnique(values []string, candidates ...string) []string {
	result := values
	for _, candidate := range candidates {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		duplicate := false
		for _, existing := range result {
			if existing == trimmedCandidate {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, trimmedCandidate)
		}
	}
	return result
}

func (application *Application) handleConfigurationInitialization(command *cobra.Command) (bool, error) {
	if !application.persistentFlagChanged(command, configurationInitializationFlagNameConstant) {
		return false, nil
	}

	initializationScope := strings.TrimSpace(application.configurationInitializationScope)
	if len(initializationScope) == 0 {
		initializationScope = configurationInitializationDefaultScopeConstant
	}

	initializationPlan, planError := application.resolveConfigurationInitializationPlan(initializationScope)
	if planError != nil {
		return true, planError
	}

	configurationContent, _ := EmbeddedDefaultConfiguration()
	if writeError := application.writeConfigurationFile(initializationPlan, configurationContent); writeError != nil {
		return true, writeError
	}

	application.logger.Info(
		configurationInitializationSuccessMessageConstant,
		zap.String(configurationFileFieldConstant, initializationPlan.FilePath),
	)

	return true, nil
}

func (application *Application) resolveConfigurationInitializationPlan(initializationScope string) (configurationInitializationPlan, error) {
	switch strings.ToLower(strings.TrimSpace(initializationScope)) {
	case "", configurationInitializationScopeLocalConstant:
		workingDirectoryPath, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return configurationInitializationPlan{}, fmt.Errorf(configurationInitializationWorkingDirectoryErrorTemplateConstant, workingDirectoryError)
		}

		trimmedWorkingDirectoryPath := strings.TrimSpace(workingDirectoryPath)
		if len(trimmedWorkingDirectoryPath) == 0 {
			return configurationInitializationPlan{}, fmt.Errorf(
				configurationInitializationWorkingDirectoryErrorTemplateConstant,
				errors.New(configurationInitializationWorkingDirectoryEmptyErrorConstant),
			)
		}

		return configurationInitializationPlan{
			DirectoryPath: trimmedWorkingDirectoryPath,
			FilePath:      filepath.Join(trimmedWorkingDirectoryPath, configurationFileNameConstant),
		}, nil
	case configurationInitializationScopeUserConstant:
		userHomeDirectoryPath, userHomeDirectoryError := os.UserHomeDir()
		if userHomeDirectoryError != nil {
			return configurationInitializationPlan{}, fmt.Errorf(configurationInitializationHomeDirectoryErrorTemplateConstant, userHomeDirectoryError)
		}

		trimmedHomeDirectoryPath := strings.TrimSpace(userHomeDirectoryPath)
		if len(trimmedHomeDirectoryPath) == 0 {
			return configurationInitializationPlan{}, fmt.Errorf(
				configurationInitializationHomeDirectoryErrorTemplateConstant,
				errors.New(configurationInitializationHomeDirectoryEmptyErrorConstant),
			)
		}

		configurationDirectoryPath := filepath.Join(trimmedHomeDirectoryPath, userConfigurationDirectoryNameConstant)
		return configurationInitializationPlan{
			DirectoryPath: configurationDirectoryPath,
			FilePath:      filepath.Join(configurationDirectoryPath, configurationFileNameConstant),
		}, nil
	default:
		return configurationInitializationPlan{}, fmt.Errorf(configurationInitializationUnsupportedScopeTemplateConstant, strings.TrimSpace(initializationScope))
	}
}

func (application *Application) writeConfigurationFile(initializationPlan configurationInitializationPlan, configurationContent []byte) error {
	if len(configurationContent) == 0 {
		return errors.New(configurationInitializationContentUnavailableErrorConstant)
	}

	directoryPath := strings.TrimSpace(initializationPlan.DirectoryPath)
	if len(directoryPath) == 0 {
		return fmt.Errorf(
			configurationInitializationDirectoryErrorTemplateConstant,
			initializationPlan.DirectoryPath,
			errors.New(configurationInitializationWorkingDirectoryEmptyErrorConstant),
		)
	}

	directoryInfo, directoryStatError := os.Stat(directoryPath)
	switch {
	case directoryStatError == nil:
		if !directoryInfo.IsDir() {
			return fmt.Errorf(configurationInitializationDirectoryConflictTemplateConstant, directoryPath)
		}
	case errors.Is(directoryStatError, os.ErrNotExist):
		if createError := os.MkdirAll(directoryPath, configurationDirectoryPermissionConstant); createError != nil {
			return fmt.Errorf(configurationInitializationDirectoryErrorTemplateConstant, directoryPath, createError)
		}
	default:
		return fmt.Errorf(configurationInitializationDirectoryErrorTemplateConstant, directoryPath, directoryStatError)
	}

	fileInfo, fileStatError := os.Stat(initializationPlan.FilePath)
	switch {
	case fileStatError == nil:
		if fileInfo.IsDir() {
			return fmt.Errorf(configurationInitializationExistingDirectoryTemplateConstant, initializationPlan.FilePath)
		}
		if !application.configurationInitializationForced {
			return fmt.Errorf(configurationInitializationExistingFileTemplateConstant, initializationPlan.FilePath)
		}
	case errors.Is(fileStatError, os.ErrNotExist):
	default:
		return fmt.Errorf(configurationInitializationWriteErrorTemplateConstant, initializationPlan.FilePath, fileStatError)
	}

	if writeError := os.WriteFile(initializationPlan.FilePath, configurationContent, configurationFilePermissionConstant); writeError != nil {
		return fmt.Errorf(configurationInitializationWriteErrorTemplateConstant, initializationPlan.FilePath, writeError)
	}

	return nil
}

// runRootCommand runs the checks unless the invocation only initializes configuration.
func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	initializationHandled, initializationError := application.handleConfigurationInitialization(command)
	if initializationError != nil {
		return initializationError
	}
	if initializationHandled {
		return nil
	}

	return application.checksBuilder.Run(command, arguments)
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return application.syncLoggerInstance(application.consoleLogger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.EBADF):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
