package pipeline_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/belay/internal/pipeline"
)

func TestDiscoverDescriptorsInFS(testInstance *testing.T) {
	testCases := []struct {
		name              string
		fileSystem        fstest.MapFS
		expectedSources   []string
		expectedFormats   []pipeline.ProviderFormat
		expectNotFoundErr bool
	}{
		{
			name: "github_and_gitlab",
			fileSystem: fstest.MapFS{
				".github/workflows/release.yml":   {Data: []byte("on: push\n")},
				".github/workflows/ci.yaml":       {Data: []byte("on: push\n")},
				".github/workflows/README.md":     {Data: []byte("docs")},
				".github/workflows/nested/x.yml":  {Data: []byte("on: push\n")},
				".gitlab-ci.yml":                  {Data: []byte("test: make\n")},
				".github/dependabot.yml":          {Data: []byte("version: 2\n")},
				"src/.github/workflows/other.yml": {Data: []byte("on: push\n")},
			},
			expectedSources: []string{".github/workflows/ci.yaml", ".github/workflows/release.yml", ".gitlab-ci.yml"},
			expectedFormats: []pipeline.ProviderFormat{pipeline.ProviderFormatGitHubActions, pipeline.ProviderFormatGitHubActions, pipeline.ProviderFormatGitLabCI},
		},
		{
			name: "gitlab_only",
			fileSystem: fstest.MapFS{
				".gitlab-ci.yml": {Data: []byte("test: make\n")},
			},
			expectedSources: []string{".gitlab-ci.yml"},
			expectedFormats: []pipeline.ProviderFormat{pipeline.ProviderFormatGitLabCI},
		},
		{
			name: "empty_workflows_directory",
			fileSystem: fstest.MapFS{
				".github/workflows/notes.txt": {Data: []byte("nothing")},
			},
			expectNotFoundErr: true,
		},
		{
			name:              "no_configuration",
			fileSystem:        fstest.MapFS{"main.go": {Data: []byte("package main\n")}},
			expectNotFoundErr: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			descriptors, discoveryError := pipeline.DiscoverDescriptorsInFS(testCase.fileSystem)
			if testCase.expectNotFoundErr {
				require.ErrorIs(testInstance, discoveryError, pipeline.ErrConfigNotFound)
				require.Empty(testInstance, descriptors)
				return
			}
			require.NoError(testInstance, discoveryError)

			sources := make([]string, 0, len(descriptors))
			formats := make([]pipeline.ProviderFormat, 0, len(descriptors))
			for _, descriptor := range descriptors {
				sources = append(sources, descriptor.SourceIdentifier)
				formats = append(formats, descriptor.Format)
				require.Equal(testInstance, testCase.fileSystem[descriptor.SourceIdentifier].Data, descriptor.Content)
			}
			require.Equal(testInstance, testCase.expectedSources, sources)
			require.Equal(testInstance, testCase.expectedFormats, formats)
		})
	}
}

func TestDiscoverDescriptorsReportsRepositoryRoot(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()

	_, discoveryError := pipeline.DiscoverDescriptors(repositoryRoot)
	require.ErrorIs(testInstance, discoveryError, pipeline.ErrConfigNotFound)
	require.Equal(testInstance, "Unable to find CI configuration", discoveryError.Error())

	var notFoundError pipeline.ConfigNotFoundError
	require.True(testInstance, errors.As(discoveryError, &notFoundError))
	require.Equal(testInstance, repositoryRoot, notFoundError.RepositoryRoot)
	require.Contains(testInstance, notFoundError.Detail(), repositoryRoot)
}

func TestDiscoverDescriptorsReadsRepositoryFiles(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	workflowsDirectory := filepath.Join(repositoryRoot, ".github", "workflows")
	require.NoError(testInstance, os.MkdirAll(workflowsDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(workflowsDirectory, "ci.yml"), []byte("on: push\n"), 0o644))

	descriptors, discoveryError := pipeline.DiscoverDescriptors(repositoryRoot)
	require.NoError(testInstance, discoveryError)
	require.Len(testInstance, descriptors, 1)
	require.Equal(testInstance, ".github/workflows/ci.yml", descriptors[0].SourceIdentifier)
	require.Equal(testInstance, pipeline.ProviderFormatGitHubActions, descriptors[0].Format)
}
