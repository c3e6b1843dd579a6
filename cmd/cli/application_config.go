package cli

import (
	_ "embed"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	checkscmd "github.com/tyemirov/belay/cmd/cli/checks"
	hookcmd "github.com/tyemirov/belay/cmd/cli/hook"
)

const (
	embeddedConfigurationTypeConstant = "yaml"
	checksSectionNameConstant         = "checks"
	hooksSectionNameConstant          = "hooks"
	sectionDecodeErrorMessageConstant = "unable to decode configuration section"
	sectionNameLogFieldConstant       = "section"
	sectionErrorLogFieldConstant      = "error"
)

//go:embed default_config.yaml
var embeddedDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns the configuration written by --init and merged beneath user files.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return embeddedDefaultConfiguration, embeddedConfigurationTypeConstant
}

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Checks map[string]any                 `mapstructure:"checks"`
	Hooks  map[string]any                 `mapstructure:"hooks"`
}

// ApplicationCommonConfiguration stores logging defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func (application *Application) checksConfiguration() checkscmd.CommandConfiguration {
	configuration := checkscmd.DefaultCommandConfiguration()
	application.decodeSection(checksSectionNameConstant, application.configuration.Checks, &configuration)
	return configuration
}

func (application *Application) hookConfiguration() hookcmd.CommandConfiguration {
	configuration := hookcmd.DefaultCommandConfiguration()
	application.decodeSection(hooksSectionNameConstant, application.configuration.Hooks, &configuration)
	return configuration
}

// decodeSection overlays the section options onto target and logs options that fail to decode.
func (application *Application) decodeSection(sectionName string, options map[string]any, target any) {
	if len(options) == 0 || target == nil {
		return
	}

	decodeError := decodeOptions(options, target)
	if decodeError == nil {
		return
	}

	logger := application.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Warn(
		sectionDecodeErrorMessageConstant,
		zap.String(sectionNameLogFieldConstant, sectionName),
		zap.Error(decodeError),
	)
}

func decodeOptions(options map[string]any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           target,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return decoderError
	}
	return decoder.Decode(options)
}
