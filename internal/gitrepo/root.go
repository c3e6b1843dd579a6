package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	gitMetadataEntryNameConstant     = ".git"
	repositoryRootNotFoundMessage    = "Failed to find git root"
	workingDirectoryRequiredTemplate = "working directory required"
)

var (
	// ErrRepositoryRootNotFound indicates no ancestor of the working directory contains git metadata.
	ErrRepositoryRootNotFound = errors.New(repositoryRootNotFoundMessage)
	// ErrWorkingDirectoryRequired indicates an empty working directory was supplied.
	ErrWorkingDirectoryRequired = errors.New(workingDirectoryRequiredTemplate)
)

// FindRepositoryRoot walks upward from workingDirectory and returns the first directory that
// contains a .git entry. Worktrees and submodules, where .git is a file, are recognized as well.
func FindRepositoryRoot(workingDirectory string) (string, error) {
	trimmedDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedDirectory) == 0 {
		return "", ErrWorkingDirectoryRequired
	}

	currentDirectory, absoluteError := filepath.Abs(trimmedDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}

	for {
		if _, statError := os.Stat(filepath.Join(currentDirectory, gitMetadataEntryNameConstant)); statError == nil {
			return currentDirectory, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", ErrRepositoryRootNotFound
		}
		currentDirectory = parentDirectory
	}
}
