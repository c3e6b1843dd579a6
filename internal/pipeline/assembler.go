package pipeline

import (
	"sort"
)

// OrderWorkflows returns a copy of the workflows sorted lexicographically by source identifier.
func OrderWorkflows(workflows []WorkflowDefinition) []WorkflowDefinition {
	ordered := make([]WorkflowDefinition, len(workflows))
	copy(ordered, workflows)
	sort.SliceStable(ordered, func(leftIndex int, rightIndex int) bool {
		return ordered[leftIndex].SourceIdentifier < ordered[rightIndex].SourceIdentifier
	})
	return ordered
}

// AssembleTaskList flattens the workflows into one ordered task list in which every command appears
// once, at the position and with the name of its first occurrence.
func AssembleTaskList(workflows []WorkflowDefinition) TaskList {
	ordered := OrderWorkflows(workflows)

	seenCommands := make(map[string]struct{})
	taskList := make(TaskList, 0)
	for _, workflow := range ordered {
		tasks := make([]TaskDefinition, len(workflow.Tasks))
		copy(tasks, workflow.Tasks)
		sort.SliceStable(tasks, func(leftIndex int, rightIndex int) bool {
			return tasks[leftIndex].Position < tasks[rightIndex].Position
		})

		for _, task := range tasks {
			if _, seen := seenCommands[task.Command]; seen {
				continue
			}
			seenCommands[task.Command] = struct{}{}
			taskList = append(taskList, task)
		}
	}
	return taskList
}
