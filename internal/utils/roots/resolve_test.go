package roots_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/belay/internal/utils"
	rootutils "github.com/tyemirov/belay/internal/utils/roots"
)

const testWorkingDirectoryConstant = "/work/project"

func TestResolveStartDirectoryScenarios(testInstance *testing.T) {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	require.NoError(testInstance, homeDirectoryError)

	testCases := []struct {
		name              string
		repositoryPath    string
		expectedDirectory string
	}{
		{
			name:              "defaults_to_working_directory",
			expectedDirectory: testWorkingDirectoryConstant,
		},
		{
			name:              "absolute_path",
			repositoryPath:    "/srv/checkout/",
			expectedDirectory: "/srv/checkout",
		},
		{
			name:              "relative_path",
			repositoryPath:    "../sibling",
			expectedDirectory: "/work/sibling",
		},
		{
			name:              "home_directory_prefix",
			repositoryPath:    "~/integration",
			expectedDirectory: filepath.Join(homeDirectory, "integration"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := &cobra.Command{Use: "root-test"}
			command.SetContext(utils.NewCommandContextAccessor().WithRepositoryPath(context.Background(), testCase.repositoryPath))

			resolvedDirectory, resolveError := rootutils.Resolve(command, func() (string, error) {
				return testWorkingDirectoryConstant, nil
			})
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedDirectory, resolvedDirectory)
		})
	}
}

func TestResolveReportsWorkingDirectoryFailure(testInstance *testing.T) {
	workingDirectoryFailure := errors.New("getwd failed")

	_, resolveError := rootutils.Resolve(nil, func() (string, error) {
		return "", workingDirectoryFailure
	})
	require.ErrorIs(testInstance, resolveError, workingDirectoryFailure)
}
