package flags

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	// RepositoryFlagName exposes the shared starting directory flag name.
	RepositoryFlagName = "repository"
	// RepositoryFlagShorthand provides the shorthand for the starting directory flag.
	RepositoryFlagShorthand = "C"
	// RepositoryFlagUsage describes the starting directory flag purpose.
	RepositoryFlagUsage = "Directory inside the repository to check (defaults to the working directory)"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "List the checks that would run without executing them"
	// ShellFlagName exposes the shared shell flag name.
	ShellFlagName = "shell"
	// ShellFlagUsage describes the shared shell flag purpose.
	ShellFlagUsage = "Shell used to run each check command"
)

// RepositoryFlagValues stores the starting directory flag value.
type RepositoryFlagValues struct {
	Path string
}

// BindRepositoryFlag attaches the persistent starting directory flag to the provided command.
func BindRepositoryFlag(command *cobra.Command, defaults RepositoryFlagValues) *RepositoryFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	persistentFlagSet := command.PersistentFlags()
	if persistentFlagSet.Lookup(RepositoryFlagName) == nil {
		persistentFlagSet.StringVarP(&values.Path, RepositoryFlagName, RepositoryFlagShorthand, defaults.Path, RepositoryFlagUsage)
	}
	return &values
}

// EnsureShellFlag guarantees the shared shell flag is available on the command.
func EnsureShellFlag(command *cobra.Command, defaultValue string) {
	if command == nil {
		return
	}

	persistentSet := command.PersistentFlags()
	if persistentSet.Lookup(ShellFlagName) == nil {
		persistentSet.String(ShellFlagName, strings.TrimSpace(defaultValue), ShellFlagUsage)
	}
}
