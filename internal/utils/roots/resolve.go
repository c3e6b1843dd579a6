// Package roots resolves the directory a command starts searching for the repository from.
package roots

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyemirov/belay/internal/utils"
)

const (
	homeDirectoryPrefixConstant   = "~"
	workingDirectoryErrorTemplate = "unable to determine working directory: %w"
	homeDirectoryErrorTemplate    = "unable to expand %s: %w"
	absolutePathErrorTemplate     = "unable to resolve directory %s: %w"
)

// WorkingDirectoryProvider reports the process working directory.
type WorkingDirectoryProvider func() (string, error)

// Resolve returns the absolute start directory for the command. The --repository value carried in the
// command context wins; relative values are taken from the working directory and a leading ~ expands
// to the user's home directory.
func Resolve(command *cobra.Command, workingDirectoryProvider WorkingDirectoryProvider) (string, error) {
	if workingDirectoryProvider == nil {
		workingDirectoryProvider = os.Getwd
	}
	workingDirectory, workingDirectoryError := workingDirectoryProvider()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplate, workingDirectoryError)
	}

	var executionContext context.Context
	if command != nil {
		executionContext = command.Context()
	}
	requestedPath, requested := utils.NewCommandContextAccessor().RepositoryPath(executionContext)
	if !requested {
		return workingDirectory, nil
	}

	expandedPath, expandError := expandHomeDirectory(requestedPath)
	if expandError != nil {
		return "", expandError
	}
	if !filepath.IsAbs(expandedPath) {
		expandedPath = filepath.Join(workingDirectory, expandedPath)
	}

	absolutePath, absoluteError := filepath.Abs(expandedPath)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplate, requestedPath, absoluteError)
	}
	return absolutePath, nil
}

func expandHomeDirectory(candidate string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidate)
	if trimmedCandidate != homeDirectoryPrefixConstant && !strings.HasPrefix(trimmedCandidate, homeDirectoryPrefixConstant+string(filepath.Separator)) {
		return trimmedCandidate, nil
	}

	homeDirectory, homeDirectoryError := os.UserHomeDir()
	if homeDirectoryError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplate, trimmedCandidate, homeDirectoryError)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(trimmedCandidate, homeDirectoryPrefixConstant)), nil
}
