package pipeline

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

const (
	serviceLoggerMissingMessageConstant   = "check service logger not configured"
	serviceExecutorMissingMessageConstant = "check service executor not configured"
	workflowParsedLogMessageConstant      = "workflow parsed"
	workflowIneligibleLogMessageConstant  = "workflow not applicable"
	planAssembledLogMessageConstant       = "check plan assembled"
	sourceFieldNameConstant               = "source"
	formatFieldNameConstant               = "format"
	eventFieldNameConstant                = "event"
	branchFieldNameConstant               = "branch"
	remoteFieldNameConstant               = "remote_configured"
	workflowTaskCountFieldNameConstant    = "task_count"
	eligibleCountFieldNameConstant        = "eligible_workflows"
)

var (
	// ErrServiceLoggerNotConfigured indicates the service was constructed without a logger.
	ErrServiceLoggerNotConfigured = errors.New(serviceLoggerMissingMessageConstant)
	// ErrServiceExecutorNotConfigured indicates the service was constructed without a task list executor.
	ErrServiceExecutorNotConfigured = errors.New(serviceExecutorMissingMessageConstant)
)

// TaskListExecutor runs an assembled task list.
type TaskListExecutor interface {
	Execute(executionContext context.Context, taskList TaskList) (ExecutionOutcome, error)
}

// Plan is the result of normalizing, filtering, and assembling a set of descriptors.
type Plan struct {
	ActiveEvent RepositoryEvent
	Workflows   []WorkflowDefinition
	Eligible    []WorkflowDefinition
	Tasks       TaskList
}

// RepositoryEvent pairs the resolved event with the context it was derived from.
type RepositoryEvent struct {
	Event   EventName
	Context RepositoryContext
}

// Service wires the descriptor parser, applicability resolver, task list assembler, and executor.
type Service struct {
	logger   *zap.Logger
	executor TaskListExecutor
}

// NewService constructs a Service.
func NewService(logger *zap.Logger, executor TaskListExecutor) (*Service, error) {
	if logger == nil {
		return nil, ErrServiceLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrServiceExecutorNotConfigured
	}
	return &Service{logger: logger, executor: executor}, nil
}

// Plan parses every descriptor, keeps the workflows eligible for the repository context, and assembles
// their tasks. The first malformed descriptor in source order aborts planning.
func (service *Service) Plan(descriptors []Descriptor, repositoryContext RepositoryContext) (Plan, error) {
	if len(descriptors) == 0 {
		return Plan{}, ErrConfigNotFound
	}

	orderedDescriptors := make([]Descriptor, len(descriptors))
	copy(orderedDescriptors, descriptors)
	sort.SliceStable(orderedDescriptors, func(leftIndex int, rightIndex int) bool {
		return orderedDescriptors[leftIndex].SourceIdentifier < orderedDescriptors[rightIndex].SourceIdentifier
	})
	workflows := make([]WorkflowDefinition, 0, len(orderedDescriptors))
	for _, descriptor := range orderedDescriptors {
		workflow, parseError := descriptor.Parse()
		if parseError != nil {
			return Plan{}, parseError
		}
		service.logger.Debug(workflowParsedLogMessageConstant,
			zap.String(sourceFieldNameConstant, descriptor.SourceIdentifier),
			zap.String(formatFieldNameConstant, string(descriptor.Format)),
			zap.Int(workflowTaskCountFieldNameConstant, len(workflow.Tasks)),
		)
		workflows = append(workflows, workflow)
	}

	activeEvent := ActiveEvent(repositoryContext)
	eligible := make([]WorkflowDefinition, 0, len(workflows))
	for _, workflow := range workflows {
		if !IsEligible(workflow, repositoryContext) {
			service.logger.Debug(workflowIneligibleLogMessageConstant,
				zap.String(sourceFieldNameConstant, workflow.SourceIdentifier),
				zap.String(eventFieldNameConstant, string(activeEvent)),
				zap.String(branchFieldNameConstant, repositoryContext.CurrentBranch),
			)
			continue
		}
		eligible = append(eligible, workflow)
	}

	taskList := AssembleTaskList(eligible)
	service.logger.Info(planAssembledLogMessageConstant,
		zap.String(eventFieldNameConstant, string(activeEvent)),
		zap.String(branchFieldNameConstant, repositoryContext.CurrentBranch),
		zap.Bool(remoteFieldNameConstant, repositoryContext.HasConfiguredRemote),
		zap.Int(eligibleCountFieldNameConstant, len(eligible)),
		zap.Int(taskCountFieldNameConstant, len(taskList)),
	)

	return Plan{
		ActiveEvent: RepositoryEvent{Event: activeEvent, Context: repositoryContext},
		Workflows:   workflows,
		Eligible:    eligible,
		Tasks:       taskList,
	}, nil
}

// Run plans the descriptors and executes the resulting task list.
func (service *Service) Run(executionContext context.Context, descriptors []Descriptor, repositoryContext RepositoryContext) (ExecutionOutcome, error) {
	plan, planError := service.Plan(descriptors, repositoryContext)
	if planError != nil {
		return ExecutionOutcome{}, planError
	}
	return service.executor.Execute(executionContext, plan.Tasks)
}
