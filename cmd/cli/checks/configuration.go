package checks

import (
	"strings"

	"github.com/tyemirov/belay/internal/execshell"
)

// CommandConfiguration captures configuration values for running checks.
type CommandConfiguration struct {
	Shell  string `mapstructure:"shell"`
	DryRun bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns the defaults used when no configuration is supplied.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Shell: string(execshell.CommandShell)}
}

// Sanitize trims textual values and restores the default shell when none is configured.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Shell = strings.TrimSpace(configuration.Shell)
	if len(sanitized.Shell) == 0 {
		sanitized.Shell = string(execshell.CommandShell)
	}
	return sanitized
}
