package gitrepo_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/belay/internal/execshell"
	"github.com/tyemirov/belay/internal/gitrepo"
	"github.com/tyemirov/belay/internal/pipeline"
)

const (
	testRepositoryPathConstant               = "/tmp/repo"
	testBranchNameConstant                   = "feature/example"
	testValidationCaseNameConstant           = "validation"
	testCurrentBranchSymbolicCaseNameConst   = "current_branch_symbolic"
	testCurrentBranchFallbackCaseNameConst   = "current_branch_fallback"
	testCurrentBranchErrorCaseNameConstant   = "current_branch_error"
	testListRemotesSuccessCaseNameConstant   = "list_remotes_success"
	testListRemotesEmptyCaseNameConstant     = "list_remotes_empty"
	testListRemotesErrorCaseNameConstant     = "list_remotes_error"
	testResolveWithRemoteCaseNameConstant    = "resolve_with_remote"
	testResolveWithoutRemoteCaseNameConstant = "resolve_without_remote"
	testRootAtStartCaseNameConstant          = "root_at_start"
	testRootInAncestorCaseNameConstant       = "root_in_ancestor"
	testRootWorktreeFileCaseNameConstant     = "root_worktree_file"
	testSymbolicRefSubcommandConstant        = "symbolic-ref"
	testRevParseSubcommandConstant           = "rev-parse"
	testRemoteSubcommandConstant             = "remote"
	testGitDirectoryNameConstant             = ".git"
)

type stubGitExecutor struct {
	executeFunc     func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error)
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executeFunc != nil {
		return executor.executeFunc(executionContext, details)
	}
	return execshell.ExecutionResult{}, nil
}

func commandFailure() error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128},
	}
}

func TestNewRepositoryManagerValidation(testInstance *testing.T) {
	testInstance.Run(testValidationCaseNameConstant, func(testInstance *testing.T) {
		manager, creationError := gitrepo.NewRepositoryManager(nil)
		require.Error(testInstance, creationError)
		require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
		require.Nil(testInstance, manager)
	})
}

func TestGetCurrentBranch(testInstance *testing.T) {
	testCases := []struct {
		name              string
		repositoryPath    string
		executeFunc       func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error)
		expectedBranch    string
		expectedCallCount int
		errorType         any
	}{
		{
			name:           testCurrentBranchSymbolicCaseNameConst,
			repositoryPath: testRepositoryPathConstant,
			executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: testBranchNameConstant + "\n"}, nil
			},
			expectedBranch:    testBranchNameConstant,
			expectedCallCount: 1,
		},
		{
			name:           testCurrentBranchFallbackCaseNameConst,
			repositoryPath: testRepositoryPathConstant,
			executeFunc: func(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				if details.Arguments[0] == testSymbolicRefSubcommandConstant {
					return execshell.ExecutionResult{}, commandFailure()
				}
				return execshell.ExecutionResult{StandardOutput: "HEAD\n"}, nil
			},
			expectedBranch:    "HEAD",
			expectedCallCount: 2,
		},
		{
			name:           testCurrentBranchErrorCaseNameConstant,
			repositoryPath: testRepositoryPathConstant,
			executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, commandFailure()
			},
			expectedCallCount: 2,
			errorType:         gitrepo.RepositoryOperationError{},
		},
		{
			name:              testValidationCaseNameConstant,
			repositoryPath:    "  ",
			expectedCallCount: 0,
			errorType:         gitrepo.InvalidRepositoryInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{executeFunc: testCase.executeFunc}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			branchName, branchError := manager.GetCurrentBranch(context.Background(), testCase.repositoryPath)
			require.Len(testInstance, executor.recordedDetails, testCase.expectedCallCount)

			if testCase.errorType != nil {
				require.Error(testInstance, branchError)
				require.IsType(testInstance, testCase.errorType, branchError)
				return
			}

			require.NoError(testInstance, branchError)
			require.Equal(testInstance, testCase.expectedBranch, branchName)
			require.Equal(testInstance, testSymbolicRefSubcommandConstant, executor.recordedDetails[0].Arguments[0])
			require.Equal(testInstance, testRepositoryPathConstant, executor.recordedDetails[0].WorkingDirectory)
			if testCase.expectedCallCount == 2 {
				require.Equal(testInstance, testRevParseSubcommandConstant, executor.recordedDetails[1].Arguments[0])
			}
		})
	}
}

func TestListRemotes(testInstance *testing.T) {
	testCases := []struct {
		name            string
		repositoryPath  string
		standardOutput  string
		executionError  error
		expectedRemotes []string
		errorType       any
	}{
		{
			name:            testListRemotesSuccessCaseNameConstant,
			repositoryPath:  testRepositoryPathConstant,
			standardOutput:  "origin\nupstream\n",
			expectedRemotes: []string{"origin", "upstream"},
		},
		{
			name:            testListRemotesEmptyCaseNameConstant,
			repositoryPath:  testRepositoryPathConstant,
			standardOutput:  "",
			expectedRemotes: []string{},
		},
		{
			name:           testListRemotesErrorCaseNameConstant,
			repositoryPath: testRepositoryPathConstant,
			executionError: commandFailure(),
			errorType:      gitrepo.RepositoryOperationError{},
		},
		{
			name:      testValidationCaseNameConstant,
			errorType: gitrepo.InvalidRepositoryInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: testCase.standardOutput}, testCase.executionError
			}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			remotes, listError := manager.ListRemotes(context.Background(), testCase.repositoryPath)
			if testCase.errorType != nil {
				require.Error(testInstance, listError)
				require.IsType(testInstance, testCase.errorType, listError)
				return
			}

			require.NoError(testInstance, listError)
			require.Equal(testInstance, testCase.expectedRemotes, remotes)
			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, []string{testRemoteSubcommandConstant}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestResolveContext(testInstance *testing.T) {
	testCases := []struct {
		name            string
		remoteOutput    string
		expectedContext pipeline.RepositoryContext
	}{
		{
			name:            testResolveWithRemoteCaseNameConstant,
			remoteOutput:    "origin\n",
			expectedContext: pipeline.RepositoryContext{CurrentBranch: testBranchNameConstant, HasConfiguredRemote: true},
		},
		{
			name:            testResolveWithoutRemoteCaseNameConstant,
			remoteOutput:    "",
			expectedContext: pipeline.RepositoryContext{CurrentBranch: testBranchNameConstant, HasConfiguredRemote: false},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{executeFunc: func(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				if details.Arguments[0] == testRemoteSubcommandConstant {
					return execshell.ExecutionResult{StandardOutput: testCase.remoteOutput}, nil
				}
				return execshell.ExecutionResult{StandardOutput: testBranchNameConstant}, nil
			}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			repositoryContext, resolveError := manager.ResolveContext(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedContext, repositoryContext)
		})
	}
}

func TestResolveContextPropagatesBranchFailure(testInstance *testing.T) {
	executor := &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{}, commandFailure()
	}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, resolveError := manager.ResolveContext(context.Background(), testRepositoryPathConstant)
	var operationError gitrepo.RepositoryOperationError
	require.True(testInstance, errors.As(resolveError, &operationError))
}

func TestFindRepositoryRoot(testInstance *testing.T) {
	testCases := []struct {
		name    string
		prepare func(testInstance *testing.T, baseDirectory string) string
	}{
		{
			name: testRootAtStartCaseNameConstant,
			prepare: func(testInstance *testing.T, baseDirectory string) string {
				require.NoError(testInstance, os.Mkdir(filepath.Join(baseDirectory, testGitDirectoryNameConstant), 0o755))
				return baseDirectory
			},
		},
		{
			name: testRootInAncestorCaseNameConstant,
			prepare: func(testInstance *testing.T, baseDirectory string) string {
				require.NoError(testInstance, os.Mkdir(filepath.Join(baseDirectory, testGitDirectoryNameConstant), 0o755))
				nestedDirectory := filepath.Join(baseDirectory, "a", "b")
				require.NoError(testInstance, os.MkdirAll(nestedDirectory, 0o755))
				return nestedDirectory
			},
		},
		{
			name: testRootWorktreeFileCaseNameConstant,
			prepare: func(testInstance *testing.T, baseDirectory string) string {
				gitFilePath := filepath.Join(baseDirectory, testGitDirectoryNameConstant)
				require.NoError(testInstance, os.WriteFile(gitFilePath, []byte("gitdir: /elsewhere\n"), 0o644))
				return baseDirectory
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			baseDirectory, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
			require.NoError(testInstance, resolveError)

			startDirectory := testCase.prepare(testInstance, baseDirectory)
			repositoryRoot, findError := gitrepo.FindRepositoryRoot(startDirectory)
			require.NoError(testInstance, findError)
			require.Equal(testInstance, baseDirectory, repositoryRoot)
		})
	}
}

func TestFindRepositoryRootRejectsEmptyDirectory(testInstance *testing.T) {
	_, findError := gitrepo.FindRepositoryRoot(" ")
	require.ErrorIs(testInstance, findError, gitrepo.ErrWorkingDirectoryRequired)
}
