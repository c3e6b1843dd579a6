package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorConstant        = "_"
	configurationKeySeparatorConstant      = "."
	embeddedConfigurationReadErrorTemplate = "unable to read embedded configuration: %w"
	configurationFileReadErrorTemplate     = "unable to read configuration file %s: %w"
	configurationSearchErrorTemplate       = "unable to load configuration: %w"
	configurationUnmarshalErrorTemplate    = "unable to decode configuration: %w"
)

// LoadedConfiguration reports metadata about a configuration load.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader layers defaults, embedded configuration, an optional file, and environment overrides.
// Precedence from lowest to highest: defaults, embedded configuration, file, environment.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader constructs a ConfigurationLoader. Search paths are consulted in order.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration registers configuration content compiled into the binary.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	loader.embeddedConfiguration = append([]byte{}, configurationData...)
	loader.embeddedConfigurationType = configurationType
}

// LoadConfiguration decodes the layered configuration into target. An explicit configuration file path
// bypasses the search paths and must exist.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	viperInstance := viper.New()

	for key, value := range defaultValues {
		viperInstance.SetDefault(key, value)
	}

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationReadErrorTemplate, mergeError)
		}
	}

	viperInstance.SetConfigType(loader.configurationType)
	trimmedFilePath := strings.TrimSpace(configurationFilePath)
	if len(trimmedFilePath) > 0 {
		viperInstance.SetConfigFile(trimmedFilePath)
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationFileReadErrorTemplate, trimmedFilePath, mergeError)
		}
	} else if len(loader.searchPaths) > 0 {
		viperInstance.SetConfigName(loader.configurationName)
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			var notFoundError viper.ConfigFileNotFoundError
			if !errors.As(mergeError, &notFoundError) {
				return LoadedConfiguration{}, fmt.Errorf(configurationSearchErrorTemplate, mergeError)
			}
		}
	}

	if len(loader.environmentPrefix) > 0 {
		viperInstance.SetEnvPrefix(loader.environmentPrefix)
	}
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(configurationKeySeparatorConstant, environmentKeySeparatorConstant))
	viperInstance.AutomaticEnv()

	if target != nil {
		if unmarshalError := viperInstance.Unmarshal(target); unmarshalError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplate, unmarshalError)
		}
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
