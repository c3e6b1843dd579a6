package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

const (
	githubWorkflowsDirectoryConstant = ".github/workflows"
	gitlabConfigurationFileConstant  = ".gitlab-ci.yml"
	yamlExtensionConstant            = ".yml"
	yamlLongExtensionConstant        = ".yaml"
	descriptorReadErrorTemplate      = "unable to read CI configuration %s: %w"
	descriptorListErrorTemplate      = "unable to list CI configuration directory %s: %w"
)

// DiscoverDescriptors locates the CI configuration files of the repository rooted at repositoryRoot.
func DiscoverDescriptors(repositoryRoot string) ([]Descriptor, error) {
	descriptors, discoveryError := DiscoverDescriptorsInFS(os.DirFS(repositoryRoot))
	if errors.Is(discoveryError, ErrConfigNotFound) {
		return nil, ConfigNotFoundError{RepositoryRoot: repositoryRoot}
	}
	return descriptors, discoveryError
}

// DiscoverDescriptorsInFS locates CI configuration files in the provided repository file system.
// Source identifiers are slash-separated paths relative to the repository root.
func DiscoverDescriptorsInFS(repositoryFileSystem fs.FS) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0)

	workflowEntries, listError := fs.ReadDir(repositoryFileSystem, githubWorkflowsDirectoryConstant)
	switch {
	case listError == nil:
	case errors.Is(listError, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf(descriptorListErrorTemplate, githubWorkflowsDirectoryConstant, listError)
	}

	for _, workflowEntry := range workflowEntries {
		if workflowEntry.IsDir() || !hasYAMLExtension(workflowEntry.Name()) {
			continue
		}
		sourceIdentifier := path.Join(githubWorkflowsDirectoryConstant, workflowEntry.Name())
		descriptor, readError := readDescriptor(repositoryFileSystem, ProviderFormatGitHubActions, sourceIdentifier)
		if readError != nil {
			return nil, readError
		}
		descriptors = append(descriptors, descriptor)
	}

	gitlabInfo, gitlabStatError := fs.Stat(repositoryFileSystem, gitlabConfigurationFileConstant)
	switch {
	case gitlabStatError == nil && !gitlabInfo.IsDir():
		descriptor, readError := readDescriptor(repositoryFileSystem, ProviderFormatGitLabCI, gitlabConfigurationFileConstant)
		if readError != nil {
			return nil, readError
		}
		descriptors = append(descriptors, descriptor)
	case gitlabStatError == nil, errors.Is(gitlabStatError, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf(descriptorReadErrorTemplate, gitlabConfigurationFileConstant, gitlabStatError)
	}

	if len(descriptors) == 0 {
		return nil, ErrConfigNotFound
	}

	sort.SliceStable(descriptors, func(leftIndex int, rightIndex int) bool {
		return descriptors[leftIndex].SourceIdentifier < descriptors[rightIndex].SourceIdentifier
	})
	return descriptors, nil
}

func readDescriptor(repositoryFileSystem fs.FS, format ProviderFormat, sourceIdentifier string) (Descriptor, error) {
	content, readError := fs.ReadFile(repositoryFileSystem, sourceIdentifier)
	if readError != nil {
		return Descriptor{}, fmt.Errorf(descriptorReadErrorTemplate, sourceIdentifier, readError)
	}
	return Descriptor{Format: format, SourceIdentifier: sourceIdentifier, Content: content}, nil
}

func hasYAMLExtension(fileName string) bool {
	extension := strings.ToLower(path.Ext(fileName))
	return extension == yamlExtensionConstant || extension == yamlLongExtensionConstant
}
