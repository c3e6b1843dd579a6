package hooks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/belay/internal/hooks"
)

const (
	testCommitCaseNameConstant      = "commit"
	testPushCaseNameConstant        = "push"
	testOverwriteCaseNameConstant   = "overwrite_existing"
	testCustomCommandConstant       = "belay --log-level error"
	testDefaultHookScriptConstant   = "#!/bin/sh\nbelay\n"
	testExistingHookContentConstant = "#!/bin/sh\necho old\n"
)

func TestParseHookType(testInstance *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectedType hooks.HookType
		expectError  bool
	}{
		{name: testCommitCaseNameConstant, raw: "commit", expectedType: hooks.HookTypeCommit},
		{name: testPushCaseNameConstant, raw: " PUSH ", expectedType: hooks.HookTypePush},
		{name: "unsupported", raw: "merge", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			hookType, parseError := hooks.ParseHookType(testCase.raw)
			if testCase.expectError {
				var unsupportedError hooks.UnsupportedHookTypeError
				require.ErrorAs(testInstance, parseError, &unsupportedError)
				require.Equal(testInstance, testCase.raw, unsupportedError.HookType)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedType, hookType)
		})
	}
}

func TestInstallerWritesExecutableHook(testInstance *testing.T) {
	testCases := []struct {
		name             string
		hookType         hooks.HookType
		existingContent  string
		expectedRelative string
	}{
		{name: testCommitCaseNameConstant, hookType: hooks.HookTypeCommit, expectedRelative: ".git/hooks/pre-commit"},
		{name: testPushCaseNameConstant, hookType: hooks.HookTypePush, expectedRelative: ".git/hooks/pre-push"},
		{name: testOverwriteCaseNameConstant, hookType: hooks.HookTypePush, existingContent: testExistingHookContentConstant, expectedRelative: ".git/hooks/pre-push"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryRoot := testInstance.TempDir()
			if len(testCase.existingContent) > 0 {
				hooksDirectory := filepath.Join(repositoryRoot, ".git", "hooks")
				require.NoError(testInstance, os.MkdirAll(hooksDirectory, 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryRoot, filepath.FromSlash(testCase.expectedRelative)), []byte(testCase.existingContent), 0o644))
			}

			observerCore, observedLogs := observer.New(zapcore.InfoLevel)
			installer, creationError := hooks.NewInstaller(zap.New(observerCore), "")
			require.NoError(testInstance, creationError)

			relativePath, installError := installer.Install(repositoryRoot, testCase.hookType)
			require.NoError(testInstance, installError)
			require.Equal(testInstance, testCase.expectedRelative, relativePath)

			hookPath := filepath.Join(repositoryRoot, filepath.FromSlash(relativePath))
			content, readError := os.ReadFile(hookPath)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testDefaultHookScriptConstant, string(content))

			info, statError := os.Stat(hookPath)
			require.NoError(testInstance, statError)
			require.Equal(testInstance, os.FileMode(0o755), info.Mode().Perm())

			require.Equal(testInstance, 1, observedLogs.Len())
		})
	}
}

func TestInstallerUsesConfiguredCommand(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	installer, creationError := hooks.NewInstaller(zap.NewNop(), testCustomCommandConstant)
	require.NoError(testInstance, creationError)

	relativePath, installError := installer.Install(repositoryRoot, hooks.HookTypeCommit)
	require.NoError(testInstance, installError)

	content, readError := os.ReadFile(filepath.Join(repositoryRoot, filepath.FromSlash(relativePath)))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "#!/bin/sh\n"+testCustomCommandConstant+"\n", string(content))
}

func TestInstallerValidation(testInstance *testing.T) {
	_, creationError := hooks.NewInstaller(nil, "")
	require.ErrorIs(testInstance, creationError, hooks.ErrInstallerLoggerNotConfigured)

	installer, creationError := hooks.NewInstaller(zap.NewNop(), "")
	require.NoError(testInstance, creationError)

	_, installError := installer.Install(" ", hooks.HookTypePush)
	require.ErrorIs(testInstance, installError, hooks.ErrRepositoryRootRequired)

	_, installError = installer.Install(testInstance.TempDir(), hooks.HookType("merge"))
	require.ErrorAs(testInstance, installError, &hooks.UnsupportedHookTypeError{})
}
