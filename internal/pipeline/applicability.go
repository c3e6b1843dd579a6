package pipeline

// ActiveEvent determines which conceptual event the local repository context represents.
// A configured remote means the branch could back a pull or merge request, so the proposed-change
// event takes precedence over a direct update.
func ActiveEvent(repositoryContext RepositoryContext) EventName {
	if repositoryContext.HasConfiguredRemote {
		return EventProposedChange
	}
	return EventDirectUpdate
}

// IsEligible reports whether the workflow's tasks apply to the repository context.
// Eligibility is decided per workflow; tasks are never filtered individually.
func IsEligible(workflow WorkflowDefinition, repositoryContext RepositoryContext) bool {
	if _, ungated := workflow.lookupTrigger(EventAlways); ungated {
		return true
	}

	rule, ruleFound := workflow.lookupTrigger(ActiveEvent(repositoryContext))
	if !ruleFound {
		return false
	}
	return rule.MatchesBranch(repositoryContext.CurrentBranch)
}

// SelectEligible filters the workflows down to those eligible for the repository context,
// preserving their relative order.
func SelectEligible(workflows []WorkflowDefinition, repositoryContext RepositoryContext) []WorkflowDefinition {
	eligible := make([]WorkflowDefinition, 0, len(workflows))
	for _, workflow := range workflows {
		if IsEligible(workflow, repositoryContext) {
			eligible = append(eligible, workflow)
		}
	}
	return eligible
}
