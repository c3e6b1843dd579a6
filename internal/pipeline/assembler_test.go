package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/belay/internal/pipeline"
)

func TestAssembleTaskList(testInstance *testing.T) {
	testCases := []struct {
		name             string
		workflows        []pipeline.WorkflowDefinition
		expectedCommands []string
		expectedNames    []string
	}{
		{
			name:             "no_workflows",
			expectedCommands: []string{},
			expectedNames:    []string{},
		},
		{
			name: "orders_by_source_then_position",
			workflows: []pipeline.WorkflowDefinition{
				{
					SourceIdentifier: ".github/workflows/z.yml",
					Tasks:            []pipeline.TaskDefinition{{Name: "Z", Command: "make z", Position: 0}},
				},
				{
					SourceIdentifier: ".github/workflows/a.yml",
					Tasks: []pipeline.TaskDefinition{
						{Name: "Second", Command: "make second", Position: 1},
						{Name: "First", Command: "make first", Position: 0},
					},
				},
			},
			expectedCommands: []string{"make first", "make second", "make z"},
			expectedNames:    []string{"First", "Second", "Z"},
		},
		{
			name: "duplicate_commands_keep_first_occurrence",
			workflows: []pipeline.WorkflowDefinition{
				{
					SourceIdentifier: ".gitlab-ci.yml",
					Tasks: []pipeline.TaskDefinition{
						{Name: "test", Command: "go test ./...", Position: 0},
						{Name: "lint", Command: "golangci-lint run", Position: 1},
					},
				},
				{
					SourceIdentifier: ".github/workflows/ci.yml",
					Tasks: []pipeline.TaskDefinition{
						{Name: "Tests", Command: "go test ./...", Position: 0},
						{Name: "", Command: "go vet ./...", Position: 1},
						{Name: "Tests again", Command: "go test ./...", Position: 2},
					},
				},
			},
			expectedCommands: []string{"go test ./...", "go vet ./...", "golangci-lint run"},
			expectedNames:    []string{"Tests", "", "lint"},
		},
		{
			name: "whitespace_differences_are_distinct_commands",
			workflows: []pipeline.WorkflowDefinition{
				{
					SourceIdentifier: "ci.yml",
					Tasks: []pipeline.TaskDefinition{
						{Command: "make test", Position: 0},
						{Command: "make  test", Position: 1},
					},
				},
			},
			expectedCommands: []string{"make test", "make  test"},
			expectedNames:    []string{"", ""},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			taskList := pipeline.AssembleTaskList(testCase.workflows)
			require.Equal(testInstance, testCase.expectedCommands, taskList.Commands())

			names := make([]string, 0, len(taskList))
			for _, task := range taskList {
				names = append(names, task.DisplayName())
			}
			require.Equal(testInstance, testCase.expectedNames, names)
		})
	}
}

func TestOrderWorkflowsDoesNotMutateInput(testInstance *testing.T) {
	workflows := []pipeline.WorkflowDefinition{{SourceIdentifier: "b"}, {SourceIdentifier: "a"}}

	ordered := pipeline.OrderWorkflows(workflows)
	require.Equal(testInstance, "a", ordered[0].SourceIdentifier)
	require.Equal(testInstance, "b", workflows[0].SourceIdentifier)
}
