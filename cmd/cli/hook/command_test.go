package hook_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/belay/cmd/cli/hook"
	"github.com/tyemirov/belay/internal/gitrepo"
)

func TestHookCommandInstallsHooks(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		configuration    hook.CommandConfiguration
		expectedOutput   string
		expectedFileName string
		expectedScript   string
	}{
		{
			name:             "commit_hook",
			arguments:        []string{"commit"},
			expectedOutput:   "Created hook `.git/hooks/pre-commit`\n",
			expectedFileName: "pre-commit",
			expectedScript:   "#!/bin/sh\nbelay\n",
		},
		{
			name:             "push_hook_with_configured_command",
			arguments:        []string{"push"},
			configuration:    hook.CommandConfiguration{Command: "  belay --log-level info  "},
			expectedOutput:   "Created hook `.git/hooks/pre-push`\n",
			expectedFileName: "pre-push",
			expectedScript:   "#!/bin/sh\nbelay --log-level info\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryRoot := testInstance.TempDir()
			require.NoError(testInstance, os.Mkdir(filepath.Join(repositoryRoot, ".git"), 0o755))

			builder := hook.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() hook.CommandConfiguration { return testCase.configuration },
				WorkingDirectoryProvider: func() (string, error) {
					return repositoryRoot, nil
				},
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(outputBuffer)
			command.SetArgs(testCase.arguments)

			require.NoError(testInstance, command.Execute())
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())

			hookPath := filepath.Join(repositoryRoot, ".git", "hooks", testCase.expectedFileName)
			content, readError := os.ReadFile(hookPath)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedScript, string(content))

			info, statError := os.Stat(hookPath)
			require.NoError(testInstance, statError)
			require.NotZero(testInstance, info.Mode().Perm()&0o100)
		})
	}
}

func TestHookCommandRequiresRepository(testInstance *testing.T) {
	outsideDirectory := testInstance.TempDir()
	builder := hook.CommandBuilder{
		WorkingDirectoryProvider: func() (string, error) {
			return outsideDirectory, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"commit"})

	require.ErrorIs(testInstance, command.Execute(), gitrepo.ErrRepositoryRootNotFound)
}

func TestHookCommandRejectsUnknownType(testInstance *testing.T) {
	builder := hook.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"merge"})

	require.Error(testInstance, command.Execute())
}
