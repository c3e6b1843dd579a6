// Package version resolves the belay release identifier from linker flags, module build metadata, or
// the tags of the source checkout.
package version

import (
	"context"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/belay/internal/execshell"
	"github.com/tyemirov/belay/internal/gitrepo"
)

const (
	unknownVersionFallbackConstant            = "unknown"
	buildInfoDevelVersionValue                = "devel"
	gitDescribeSubcommandConstant             = "describe"
	gitTagsFlagConstant                       = "--tags"
	gitExactMatchFlagConstant                 = "--exact-match"
	gitLongFlagConstant                       = "--long"
	gitDirtyFlagConstant                      = "--dirty"
	gitTerminalPromptEnvironmentNameConstant  = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentValueConstant = "0"
)

// BuildVersion is injected at link time with -ldflags "-X github.com/tyemirov/belay/internal/version.BuildVersion=v1.0.0".
var BuildVersion string

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

// Detector resolves application version strings.
type Detector struct {
	linkedVersion     string
	buildInfoProvider BuildInfoProvider
	gitExecutor       gitrepo.GitCommandExecutor
	workingDirectory  string
}

// Dependencies describes the collaborators required for version detection.
type Dependencies struct {
	LinkedVersion     string
	BuildInfoProvider BuildInfoProvider
	GitExecutor       gitrepo.GitCommandExecutor
	WorkingDirectory  string
}

// NewDetector constructs a Detector with the supplied dependencies or runtime defaults.
func NewDetector(dependencies Dependencies) (*Detector, error) {
	provider := dependencies.BuildInfoProvider
	if provider == nil {
		provider = runtimeBuildInfoProvider{}
	}

	executor := dependencies.GitExecutor
	if executor == nil {
		shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), false)
		if creationError != nil {
			return nil, creationError
		}
		executor = shellExecutor
	}

	workingDirectory := strings.TrimSpace(dependencies.WorkingDirectory)
	if len(workingDirectory) == 0 {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError == nil {
			workingDirectory = currentDirectory
		}
	}

	linkedVersion := strings.TrimSpace(dependencies.LinkedVersion)
	if len(linkedVersion) == 0 {
		linkedVersion = strings.TrimSpace(BuildVersion)
	}

	return &Detector{
		linkedVersion:     linkedVersion,
		buildInfoProvider: provider,
		gitExecutor:       executor,
		workingDirectory:  workingDirectory,
	}, nil
}

// Detect resolves the application version using the supplied dependencies.
func Detect(executionContext context.Context, dependencies Dependencies) string {
	detector, detectorError := NewDetector(dependencies)
	if detectorError != nil {
		return unknownVersionFallbackConstant
	}
	return detector.Version(executionContext)
}

// Version returns the detected application version string.
func (detector *Detector) Version(executionContext context.Context) string {
	if detector == nil {
		return unknownVersionFallbackConstant
	}

	if len(detector.linkedVersion) > 0 {
		return detector.linkedVersion
	}

	if buildVersion := detector.versionFromBuildInfo(); len(buildVersion) > 0 {
		return buildVersion
	}

	repositoryRoot, rootError := gitrepo.FindRepositoryRoot(detector.workingDirectory)
	if rootError != nil {
		return unknownVersionFallbackConstant
	}

	if exactVersion := detector.describeVersion(executionContext, repositoryRoot, []string{gitDescribeSubcommandConstant, gitTagsFlagConstant, gitExactMatchFlagConstant}); len(exactVersion) > 0 {
		return exactVersion
	}

	if longVersion := detector.describeVersion(executionContext, repositoryRoot, []string{gitDescribeSubcommandConstant, gitTagsFlagConstant, gitLongFlagConstant, gitDirtyFlagConstant}); len(longVersion) > 0 {
		return longVersion
	}

	return unknownVersionFallbackConstant
}

func (detector *Detector) versionFromBuildInfo() string {
	if detector.buildInfoProvider == nil {
		return ""
	}

	buildInfo, available := detector.buildInfoProvider.Read()
	if !available || buildInfo == nil {
		return ""
	}

	trimmedVersion := strings.TrimSpace(buildInfo.Main.Version)
	if len(trimmedVersion) == 0 || strings.EqualFold(trimmedVersion, buildInfoDevelVersionValue) || trimmedVersion == "(devel)" {
		return ""
	}

	return trimmedVersion
}

func (detector *Detector) describeVersion(executionContext context.Context, repositoryRoot string, arguments []string) string {
	if detector.gitExecutor == nil {
		return ""
	}

	executionResult, executionError := detector.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryRoot,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentValueConstant},
	})
	if executionError != nil {
		return ""
	}

	return strings.TrimSpace(executionResult.StandardOutput)
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}
