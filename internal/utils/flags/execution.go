// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeConstant          = "bool"
	toggleFlagNoOptionValueConstant = "true"
	toggleParseErrorTemplate        = "invalid toggle value %q"
	longFlagPrefixConstant          = "--"
	flagValueSeparatorConstant      = "="
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun ExecutionFlagDefinition
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	bindToggleFlag(command.PersistentFlags(), definitions.DryRun, defaults.DryRun)
}

func bindToggleFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}

	AddToggleFlag(flagSet, nil, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
}

// toggleValue is a boolean flag value that also accepts yes/no and on/off spellings.
type toggleValue struct {
	target *bool
}

func (value *toggleValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Set(raw string) error {
	parsedValue, parseError := parseToggleValue(raw)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeConstant
}

// AddToggleFlag registers a boolean flag that accepts true/false, yes/no, on/off, and 1/0.
// When target is nil the flag allocates its own storage.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || flagSet.Lookup(name) != nil {
		return
	}
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue

	flag := flagSet.VarPF(&toggleValue{target: target}, name, shorthand, usage)
	flag.NoOptDefVal = toggleFlagNoOptionValueConstant
}

// NormalizeToggleArguments joins a long flag and a following toggle literal ("--dry-run no") into a
// single "--dry-run=no" argument so the literal is not parsed as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		currentArgument := arguments[argumentIndex]
		nextIndex := argumentIndex + 1
		if strings.HasPrefix(currentArgument, longFlagPrefixConstant) &&
			!strings.Contains(currentArgument, flagValueSeparatorConstant) &&
			nextIndex < len(arguments) &&
			isToggleLiteral(arguments[nextIndex]) {
			normalizedArguments = append(normalizedArguments, currentArgument+flagValueSeparatorConstant+arguments[nextIndex])
			argumentIndex = nextIndex
			continue
		}
		normalizedArguments = append(normalizedArguments, currentArgument)
	}
	return normalizedArguments
}

func isToggleLiteral(candidate string) bool {
	_, parseError := parseToggleValue(candidate)
	return parseError == nil
}

func parseToggleValue(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf(toggleParseErrorTemplate, raw)
	}
}
