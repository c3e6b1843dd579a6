// Package hooks installs git hook scripts that run the checks before commits or pushes.
package hooks

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// HookType names the git event a hook runs on.
type HookType string

const (
	// HookTypeCommit installs a pre-commit hook.
	HookTypeCommit HookType = "commit"
	// HookTypePush installs a pre-push hook.
	HookTypePush HookType = "push"
)

const (
	gitDirectoryNameConstant            = ".git"
	hooksDirectoryNameConstant          = "hooks"
	preCommitHookFileNameConstant       = "pre-commit"
	prePushHookFileNameConstant         = "pre-push"
	hookScriptTemplateConstant          = "#!/bin/sh\n%s\n"
	defaultHookCommandConstant          = "belay"
	hookFilePermissionConstant          = 0o755
	hooksDirectoryPermissionConstant    = 0o755
	unsupportedHookTypeTemplateConstant = "unsupported hook type %q (expected commit or push)"
	repositoryRootRequiredMessage       = "repository root required"
	loggerMissingMessageConstant        = "hook installer logger not configured"
	hooksDirectoryErrorTemplateConstant = "unable to prepare hooks directory %s: %w"
	hookWriteErrorTemplateConstant      = "unable to write hook %s: %w"
	hookInstalledLogMessageConstant     = "hook installed"
	hookPathFieldNameConstant           = "hook_path"
	hookCommandFieldNameConstant        = "hook_command"
)

var (
	// ErrRepositoryRootRequired indicates Install was called without a repository root.
	ErrRepositoryRootRequired = errors.New(repositoryRootRequiredMessage)
	// ErrInstallerLoggerNotConfigured indicates the installer was constructed without a logger.
	ErrInstallerLoggerNotConfigured = errors.New(loggerMissingMessageConstant)
)

// UnsupportedHookTypeError reports a hook type other than commit or push.
type UnsupportedHookTypeError struct {
	HookType string
}

// Error describes the unsupported hook type.
func (hookError UnsupportedHookTypeError) Error() string {
	return fmt.Sprintf(unsupportedHookTypeTemplateConstant, hookError.HookType)
}

// ParseHookType normalizes a user-supplied hook type.
func ParseHookType(raw string) (HookType, error) {
	switch HookType(strings.ToLower(strings.TrimSpace(raw))) {
	case HookTypeCommit:
		return HookTypeCommit, nil
	case HookTypePush:
		return HookTypePush, nil
	default:
		return "", UnsupportedHookTypeError{HookType: raw}
	}
}

// FileName returns the git hook file name for the type.
func (hookType HookType) FileName() (string, error) {
	switch hookType {
	case HookTypeCommit:
		return preCommitHookFileNameConstant, nil
	case HookTypePush:
		return prePushHookFileNameConstant, nil
	default:
		return "", UnsupportedHookTypeError{HookType: string(hookType)}
	}
}

// Installer writes hook scripts into a repository.
type Installer struct {
	logger      *zap.Logger
	hookCommand string
}

// NewInstaller constructs an Installer whose hooks run hookCommand. An empty command defaults to belay.
func NewInstaller(logger *zap.Logger, hookCommand string) (*Installer, error) {
	if logger == nil {
		return nil, ErrInstallerLoggerNotConfigured
	}
	trimmedCommand := strings.TrimSpace(hookCommand)
	if len(trimmedCommand) == 0 {
		trimmedCommand = defaultHookCommandConstant
	}
	return &Installer{logger: logger, hookCommand: trimmedCommand}, nil
}

// Install writes the hook script for hookType, replacing any existing hook, and returns its path
// relative to repositoryRoot in slash form.
func (installer *Installer) Install(repositoryRoot string, hookType HookType) (string, error) {
	trimmedRoot := strings.TrimSpace(repositoryRoot)
	if len(trimmedRoot) == 0 {
		return "", ErrRepositoryRootRequired
	}

	hookFileName, fileNameError := hookType.FileName()
	if fileNameError != nil {
		return "", fileNameError
	}

	hooksDirectory := filepath.Join(trimmedRoot, gitDirectoryNameConstant, hooksDirectoryNameConstant)
	if directoryError := os.MkdirAll(hooksDirectory, hooksDirectoryPermissionConstant); directoryError != nil {
		return "", fmt.Errorf(hooksDirectoryErrorTemplateConstant, hooksDirectory, directoryError)
	}

	hookPath := filepath.Join(hooksDirectory, hookFileName)
	scriptContent := fmt.Sprintf(hookScriptTemplateConstant, installer.hookCommand)
	if writeError := os.WriteFile(hookPath, []byte(scriptContent), hookFilePermissionConstant); writeError != nil {
		return "", fmt.Errorf(hookWriteErrorTemplateConstant, hookPath, writeError)
	}
	// WriteFile keeps the mode of an existing file; force the executable bit.
	if chmodError := os.Chmod(hookPath, hookFilePermissionConstant); chmodError != nil {
		return "", fmt.Errorf(hookWriteErrorTemplateConstant, hookPath, chmodError)
	}

	relativePath := path.Join(gitDirectoryNameConstant, hooksDirectoryNameConstant, hookFileName)
	installer.logger.Info(hookInstalledLogMessageConstant,
		zap.String(hookPathFieldNameConstant, relativePath),
		zap.String(hookCommandFieldNameConstant, installer.hookCommand),
	)
	return relativePath, nil
}
