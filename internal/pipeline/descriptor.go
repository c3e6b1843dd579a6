package pipeline

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	githubTriggerKeyConstant              = "on"
	githubJobsKeyConstant                 = "jobs"
	githubStepsKeyConstant                = "steps"
	githubStepNameKeyConstant             = "name"
	githubStepRunKeyConstant              = "run"
	githubBranchesKeyConstant             = "branches"
	gitlabScriptKeyConstant               = "script"
	yamlMergeKeyConstant                  = "<<"
	gitlabHiddenJobPrefixConstant         = "."
	scriptLineSeparatorConstant           = "\n"
	reasonUnknownFormatTemplateConstant   = "unsupported provider format %q"
	reasonInvalidYAMLConstant             = "invalid YAML"
	reasonTopLevelMappingConstant         = "top level must be a mapping"
	reasonTriggersInvalidConstant         = "trigger section must be an event name, a list of event names, or a mapping"
	reasonBranchesInvalidTemplateConstant = "branches for event %q must be a string or a list of strings"
	reasonJobsMappingConstant             = "jobs section must be a mapping"
	reasonJobMappingTemplateConstant      = "job %q must be a mapping"
	reasonJobStepsTemplateConstant        = "job %q defines no steps"
	reasonStepInvalidTemplateConstant     = "step %d of job %q must be a command string or a mapping"
	reasonJobScriptTemplateConstant       = "job %q defines no script"
	reasonScriptInvalidTemplateConstant   = "script of job %q must be a string or a list of strings"
)

// ProviderFormat identifies one of the built-in descriptor formats.
type ProviderFormat string

// Supported descriptor formats.
const (
	// ProviderFormatGitHubActions is the trigger-aware hierarchical format of .github/workflows files.
	ProviderFormatGitHubActions ProviderFormat = ProviderFormat("github-actions")
	// ProviderFormatGitLabCI is the flat, ungated format of .gitlab-ci.yml files.
	ProviderFormatGitLabCI ProviderFormat = ProviderFormat("gitlab-ci")
)

var gitlabReservedKeywords = map[string]struct{}{
	"stages":        {},
	"variables":     {},
	"image":         {},
	"services":      {},
	"before_script": {},
	"after_script":  {},
	"cache":         {},
	"default":       {},
	"include":       {},
	"workflow":      {},
}

// Descriptor is one located configuration text awaiting normalization.
type Descriptor struct {
	Format           ProviderFormat
	SourceIdentifier string
	Content          []byte
}

// ParseDescriptor normalizes the provided configuration text into a WorkflowDefinition.
func ParseDescriptor(format ProviderFormat, sourceIdentifier string, content []byte) (WorkflowDefinition, error) {
	switch format {
	case ProviderFormatGitHubActions:
		return parseGitHubActions(sourceIdentifier, content)
	case ProviderFormatGitLabCI:
		return parseGitLabCI(sourceIdentifier, content)
	default:
		return WorkflowDefinition{}, MalformedConfigError{
			SourceIdentifier: sourceIdentifier,
			Reason:           fmt.Sprintf(reasonUnknownFormatTemplateConstant, format),
		}
	}
}

// Parse normalizes the descriptor.
func (descriptor Descriptor) Parse() (WorkflowDefinition, error) {
	return ParseDescriptor(descriptor.Format, descriptor.SourceIdentifier, descriptor.Content)
}

func parseGitHubActions(sourceIdentifier string, content []byte) (WorkflowDefinition, error) {
	rootNode, rootError := decodeTopLevelMapping(sourceIdentifier, content)
	if rootError != nil {
		return WorkflowDefinition{}, rootError
	}

	workflow := WorkflowDefinition{SourceIdentifier: sourceIdentifier}

	if triggerNode, triggerFound := lookupMappingValue(rootNode, githubTriggerKeyConstant); triggerFound {
		triggers, triggersError := parseGitHubTriggers(sourceIdentifier, triggerNode)
		if triggersError != nil {
			return WorkflowDefinition{}, triggersError
		}
		workflow.Triggers = triggers
	}

	jobsNode, jobsFound := lookupMappingValue(rootNode, githubJobsKeyConstant)
	if !jobsFound || isNullNode(jobsNode) {
		return workflow, nil
	}
	if jobsNode.Kind != yaml.MappingNode {
		return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonJobsMappingConstant}
	}

	for _, jobEntry := range mappingEntries(jobsNode) {
		if jobEntry.value.Kind != yaml.MappingNode {
			return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonJobMappingTemplateConstant, jobEntry.key)}
		}
		stepsNode, stepsFound := lookupMappingValue(jobEntry.value, githubStepsKeyConstant)
		if !stepsFound || stepsNode.Kind != yaml.SequenceNode || len(stepsNode.Content) == 0 {
			return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonJobStepsTemplateConstant, jobEntry.key)}
		}

		for stepIndex, rawStepNode := range stepsNode.Content {
			stepNode := resolveAlias(rawStepNode)
			switch stepNode.Kind {
			case yaml.ScalarNode:
				if isNullNode(stepNode) {
					return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonStepInvalidTemplateConstant, stepIndex+1, jobEntry.key)}
				}
				workflow.Tasks = appendTask(workflow.Tasks, "", stepNode.Value)
			case yaml.MappingNode:
				runNode, runFound := lookupMappingValue(stepNode, githubStepRunKeyConstant)
				if !runFound || runNode.Kind != yaml.ScalarNode {
					// Steps delegating to actions carry no shell command to replay.
					continue
				}
				stepName := ""
				if nameNode, nameFound := lookupMappingValue(stepNode, githubStepNameKeyConstant); nameFound && nameNode.Kind == yaml.ScalarNode {
					stepName = nameNode.Value
				}
				workflow.Tasks = appendTask(workflow.Tasks, stepName, runNode.Value)
			default:
				return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonStepInvalidTemplateConstant, stepIndex+1, jobEntry.key)}
			}
		}
	}

	return workflow, nil
}

func parseGitHubTriggers(sourceIdentifier string, triggerNode *yaml.Node) ([]TriggerRule, error) {
	switch triggerNode.Kind {
	case yaml.ScalarNode:
		if isNullNode(triggerNode) {
			return nil, nil
		}
		return []TriggerRule{{Event: EventName(strings.TrimSpace(triggerNode.Value))}}, nil
	case yaml.SequenceNode:
		triggers := make([]TriggerRule, 0, len(triggerNode.Content))
		for _, eventNode := range triggerNode.Content {
			resolvedEventNode := resolveAlias(eventNode)
			if resolvedEventNode.Kind != yaml.ScalarNode {
				return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonTriggersInvalidConstant}
			}
			triggers = append(triggers, TriggerRule{Event: EventName(strings.TrimSpace(resolvedEventNode.Value))})
		}
		return triggers, nil
	case yaml.MappingNode:
		entries := mappingEntries(triggerNode)
		triggers := make([]TriggerRule, 0, len(entries))
		for _, eventEntry := range entries {
			rule := TriggerRule{Event: EventName(strings.TrimSpace(eventEntry.key))}
			if eventEntry.value.Kind == yaml.MappingNode {
				if branchesNode, branchesFound := lookupMappingValue(eventEntry.value, githubBranchesKeyConstant); branchesFound && !isNullNode(branchesNode) {
					branchFilter, branchesError := decodeStringList(branchesNode)
					if branchesError != nil {
						return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonBranchesInvalidTemplateConstant, eventEntry.key)}
					}
					rule.BranchFilter = branchFilter
				}
			}
			triggers = append(triggers, rule)
		}
		return triggers, nil
	default:
		return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonTriggersInvalidConstant}
	}
}

func parseGitLabCI(sourceIdentifier string, content []byte) (WorkflowDefinition, error) {
	rootNode, rootError := decodeTopLevelMapping(sourceIdentifier, content)
	if rootError != nil {
		return WorkflowDefinition{}, rootError
	}

	workflow := WorkflowDefinition{
		SourceIdentifier: sourceIdentifier,
		Triggers:         []TriggerRule{{Event: EventAlways}},
	}

	for _, jobEntry := range mappingEntries(rootNode) {
		if _, reserved := gitlabReservedKeywords[jobEntry.key]; reserved {
			continue
		}
		if strings.HasPrefix(jobEntry.key, gitlabHiddenJobPrefixConstant) || jobEntry.key == yamlMergeKeyConstant {
			continue
		}

		scriptNode := jobEntry.value
		if jobEntry.value.Kind == yaml.MappingNode {
			foundScriptNode, scriptFound := lookupMappingValue(jobEntry.value, gitlabScriptKeyConstant)
			if !scriptFound {
				return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonJobScriptTemplateConstant, jobEntry.key)}
			}
			scriptNode = foundScriptNode
		}

		if isNullNode(scriptNode) {
			return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonJobScriptTemplateConstant, jobEntry.key)}
		}

		scriptLines, scriptError := decodeStringList(scriptNode)
		if scriptError != nil {
			return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonScriptInvalidTemplateConstant, jobEntry.key)}
		}
		if len(scriptLines) == 0 {
			return WorkflowDefinition{}, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: fmt.Sprintf(reasonJobScriptTemplateConstant, jobEntry.key)}
		}

		workflow.Tasks = appendTask(workflow.Tasks, jobEntry.key, strings.Join(scriptLines, scriptLineSeparatorConstant))
	}

	return workflow, nil
}

func appendTask(tasks []TaskDefinition, name string, command string) []TaskDefinition {
	return append(tasks, TaskDefinition{
		Name:     strings.TrimSpace(name),
		Command:  command,
		Position: len(tasks),
	})
}

func decodeTopLevelMapping(sourceIdentifier string, content []byte) (*yaml.Node, error) {
	var documentNode yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &documentNode); unmarshalError != nil {
		return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonInvalidYAMLConstant, Cause: unmarshalError}
	}
	if documentNode.Kind != yaml.DocumentNode || len(documentNode.Content) == 0 {
		return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonTopLevelMappingConstant}
	}
	rootNode := resolveAlias(documentNode.Content[0])
	if rootNode.Kind != yaml.MappingNode {
		return nil, MalformedConfigError{SourceIdentifier: sourceIdentifier, Reason: reasonTopLevelMappingConstant}
	}
	return rootNode, nil
}

type mappingEntry struct {
	key   string
	value *yaml.Node
}

// mappingEntries returns the key/value pairs of a mapping in declaration order.
func mappingEntries(mappingNode *yaml.Node) []mappingEntry {
	entries := make([]mappingEntry, 0, len(mappingNode.Content)/2)
	for index := 0; index+1 < len(mappingNode.Content); index += 2 {
		entries = append(entries, mappingEntry{
			key:   mappingNode.Content[index].Value,
			value: resolveAlias(mappingNode.Content[index+1]),
		})
	}
	return entries
}

// lookupMappingValue finds a key in a mapping, following YAML merge keys when the key is not set directly.
func lookupMappingValue(mappingNode *yaml.Node, key string) (*yaml.Node, bool) {
	if mappingNode == nil || mappingNode.Kind != yaml.MappingNode {
		return nil, false
	}
	var mergedNodes []*yaml.Node
	for _, entry := range mappingEntries(mappingNode) {
		if entry.key == key {
			return entry.value, true
		}
		if entry.key == yamlMergeKeyConstant {
			switch entry.value.Kind {
			case yaml.MappingNode:
				mergedNodes = append(mergedNodes, entry.value)
			case yaml.SequenceNode:
				for _, mergedNode := range entry.value.Content {
					mergedNodes = append(mergedNodes, resolveAlias(mergedNode))
				}
			}
		}
	}
	for _, mergedNode := range mergedNodes {
		if value, found := lookupMappingValue(mergedNode, key); found {
			return value, true
		}
	}
	return nil, false
}

func decodeStringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, itemNode := range node.Content {
			resolvedItemNode := resolveAlias(itemNode)
			if resolvedItemNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("unexpected node kind %d", resolvedItemNode.Kind)
			}
			values = append(values, resolvedItemNode.Value)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unexpected node kind %d", node.Kind)
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNullNode(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}
