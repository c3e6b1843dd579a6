package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tyemirov/belay/internal/execshell"
	"github.com/tyemirov/belay/internal/pipeline"
)

const (
	gitSymbolicRefSubcommandConstant          = "symbolic-ref"
	gitShortFlagConstant                      = "--short"
	gitRevParseSubcommandConstant             = "rev-parse"
	gitAbbrevRefFlagConstant                  = "--abbrev-ref"
	gitHeadReferenceConstant                  = "HEAD"
	gitRemoteSubcommandConstant               = "remote"
	repositoryPathFieldNameConstant           = "repository_path"
	requiredValueMessageConstant              = "value required"
	executorNotConfiguredMessageConstant      = "git executor not configured"
	repositoryOperationErrorTemplateConstant  = "%s operation failed"
	repositoryOperationErrorWithCauseConstant = "%s operation failed: %s"
	invalidRepositoryInputTemplateConstant    = "%s: %s"
	currentBranchOperationNameConstant        = RepositoryOperationName("GetCurrentBranch")
	listRemotesOperationNameConstant          = RepositoryOperationName("ListRemotes")
)

// GitCommandExecutor exposes the subset of execshell functionality required by RepositoryManager.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager reads repository facts through execshell.
type RepositoryManager struct {
	executor GitCommandExecutor
}

var (
	// ErrGitExecutorNotConfigured indicates the RepositoryManager was constructed without a git executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidRepositoryInputError indicates validation failures for repository operations.
type InvalidRepositoryInputError struct {
	FieldName string
	Message   string
}

// Error describes the validation failure.
func (inputError InvalidRepositoryInputError) Error() string {
	return fmt.Sprintf(invalidRepositoryInputTemplateConstant, inputError.FieldName, inputError.Message)
}

// RepositoryOperationName captures descriptive names for repository operations.
type RepositoryOperationName string

// RepositoryOperationError wraps execution failures for git operations.
type RepositoryOperationError struct {
	Operation RepositoryOperationName
	Cause     error
}

// Error describes the repository operation failure.
func (operationError RepositoryOperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(repositoryOperationErrorTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(repositoryOperationErrorWithCauseConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying error.
func (operationError RepositoryOperationError) Unwrap() error {
	return operationError.Cause
}

// NewRepositoryManager constructs a RepositoryManager for the provided executor.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetCurrentBranch resolves the current branch name. Unborn branches of freshly initialized
// repositories resolve through the symbolic HEAD reference.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", InvalidRepositoryInputError{FieldName: repositoryPathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	symbolicResult, symbolicError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSymbolicRefSubcommandConstant, gitShortFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: trimmedPath,
	})
	if symbolicError == nil {
		if branchName := strings.TrimSpace(symbolicResult.StandardOutput); len(branchName) > 0 {
			return branchName, nil
		}
	}

	revParseResult, revParseError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: trimmedPath,
	})
	if revParseError != nil {
		return "", RepositoryOperationError{Operation: currentBranchOperationNameConstant, Cause: revParseError}
	}

	return strings.TrimSpace(revParseResult.StandardOutput), nil
}

// ListRemotes returns the names of the configured remotes.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return nil, InvalidRepositoryInputError{FieldName: repositoryPathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant},
		WorkingDirectory: trimmedPath,
	})
	if executionError != nil {
		return nil, RepositoryOperationError{Operation: listRemotesOperationNameConstant, Cause: executionError}
	}

	remotes := make([]string, 0)
	for _, line := range strings.Split(executionResult.StandardOutput, "\n") {
		if trimmed := strings.TrimSpace(line); len(trimmed) > 0 {
			remotes = append(remotes, trimmed)
		}
	}
	return remotes, nil
}

// ResolveContext snapshots the facts used to decide which checks apply.
func (manager *RepositoryManager) ResolveContext(executionContext context.Context, repositoryPath string) (pipeline.RepositoryContext, error) {
	branchName, branchError := manager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return pipeline.RepositoryContext{}, branchError
	}

	remotes, remotesError := manager.ListRemotes(executionContext, repositoryPath)
	if remotesError != nil {
		return pipeline.RepositoryContext{}, remotesError
	}

	return pipeline.RepositoryContext{
		CurrentBranch:       branchName,
		HasConfiguredRemote: len(remotes) > 0,
	}, nil
}
