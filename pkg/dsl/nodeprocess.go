package dsl

import (
	"fmt"
	"sort"
)

// ProcessedNode is the fully resolved form of one topology node: its type
// applied, plugins autowired or bound explicitly, operations mapped, and
// its property/workflow/policy overlays merged in.
type ProcessedNode struct {
	ID         string
	Type       string
	Plugins    map[string]PluginDecl
	Operations map[string]string
	Properties map[string]any
	Workflows  map[string]string
	Policies   map[string]any
}

// nodeProcessor applies §4.5 to each topology node.
type nodeProcessor struct {
	appName    string
	types      *typeResolver
	plugins    map[string]PluginDecl
	interfaces map[string]InterfaceDecl
	hasPlugins bool
	policies   PoliciesSection
	reader     ContentReader
	aliases    AliasMap
}

func newNodeProcessor(appName string, types *typeResolver, plugins map[string]PluginDecl, interfaces map[string]InterfaceDecl, hasPluginsSection bool, policies PoliciesSection, reader ContentReader, aliases AliasMap) *nodeProcessor {
	return &nodeProcessor{
		appName:    appName,
		types:      types,
		plugins:    plugins,
		interfaces: interfaces,
		hasPlugins: hasPluginsSection,
		policies:   policies,
		reader:     reader,
		aliases:    aliases,
	}
}

func (p *nodeProcessor) process(decl NodeDecl) (ProcessedNode, error) {
	id := p.appName + "." + decl.Name

	completeType, err := p.types.complete(decl.Type)
	if err != nil {
		return ProcessedNode{}, err
	}

	node := ProcessedNode{
		ID:         id,
		Type:       decl.Type,
		Plugins:    map[string]PluginDecl{},
		Operations: map[string]string{},
	}

	if len(completeType.Interfaces) > 0 {
		if !p.hasPlugins {
			return ProcessedNode{}, &Error{Code: CodeMissingPluginsSection, Message: "node " + decl.Name + " requires plugins but document has no plugins section", Names: []string{decl.Name}}
		}
		if err := p.bindInterfaces(decl.Name, completeType.Interfaces, &node); err != nil {
			return ProcessedNode{}, err
		}
	}

	node.Properties = mergeOverlay(completeType.Properties, decl.Properties)
	resolvedWorkflows, err := p.resolveWorkflowOverlay(completeType.Workflows, decl.Workflows)
	if err != nil {
		return ProcessedNode{}, err
	}
	node.Workflows = resolvedWorkflows

	node.Policies = mergeOverlay(completeType.Policies, decl.Policies)
	if err := p.validateNodePolicies(decl.Name, node.Policies); err != nil {
		return ProcessedNode{}, err
	}

	return node, nil
}

func (p *nodeProcessor) bindInterfaces(nodeName string, refs []InterfaceRef, node *ProcessedNode) error {
	seen := map[string]bool{}
	// opOwner tracks which interface currently holds the unqualified binding
	// for an operation name, so a duplicate operation within that same
	// interface's own list doesn't get mistaken for a second interface
	// exposing the same bare name.
	opOwner := map[string]string{}
	for _, ref := range refs {
		if seen[ref.Name] {
			return errDuplicateInterfaceOnNode(nodeName, ref.Name)
		}
		seen[ref.Name] = true

		var pluginName string
		if ref.Explicit {
			plugin, ok := p.plugins[ref.Plugin]
			if !ok {
				return &Error{Code: CodeUndeclaredPlugin, Message: fmt.Sprintf("plugin %q is not declared", ref.Plugin), Names: []string{ref.Plugin}}
			}
			if plugin.Interface != ref.Name {
				return &Error{Code: CodePluginInterfaceMismatch, Message: fmt.Sprintf("plugin %q implements interface %q, not %q", ref.Plugin, plugin.Interface, ref.Name), Names: []string{ref.Plugin, ref.Name}}
			}
			pluginName = ref.Plugin
		} else {
			matches := p.matchingPlugins(ref.Name)
			switch len(matches) {
			case 0:
				return &Error{Code: CodeNoMatchingPlugin, Message: fmt.Sprintf("no plugin declares interface %q", ref.Name), Names: []string{ref.Name}}
			case 1:
				pluginName = matches[0]
			default:
				return &Error{Code: CodeAmbiguousAutowiring, Message: fmt.Sprintf("multiple plugins declare interface %q: %v", ref.Name, matches), Names: matches}
			}
		}

		iface, ok := p.interfaces[ref.Name]
		if !ok {
			return &Error{Code: CodeUndefinedInterface, Message: "undefined interface: " + ref.Name, Names: []string{ref.Name}}
		}

		node.Plugins[pluginName] = p.plugins[pluginName]
		for _, op := range iface.Operations {
			qualified := ref.Name + "." + op
			node.Operations[qualified] = pluginName

			switch owner, claimed := opOwner[op]; {
			case !claimed:
				// First interface to expose this bare name: bind it and
				// remember which interface claimed it.
				opOwner[op] = ref.Name
				node.Operations[op] = pluginName
			case owner == ref.Name:
				// Same interface listing the same operation twice: keep the
				// existing (unambiguous) binding as is.
			case owner != "":
				// A second, different interface exposes the same bare name:
				// retract the unqualified binding for good.
				delete(node.Operations, op)
				opOwner[op] = ""
			}
		}
	}
	return nil
}

func (p *nodeProcessor) matchingPlugins(interfaceName string) []string {
	var matches []string
	for name, plugin := range p.plugins {
		if plugin.Interface == interfaceName {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// mergeOverlay shallow-unions type-level and node-level section maps, with
// the node's values overriding the type's on shared keys.
func mergeOverlay(typeLevel, nodeLevel map[string]any) map[string]any {
	if len(typeLevel) == 0 && len(nodeLevel) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(typeLevel)+len(nodeLevel))
	for k, v := range typeLevel {
		out[k] = deepCopy(v)
	}
	for k, v := range nodeLevel {
		out[k] = deepCopy(v)
	}
	return out
}

func (p *nodeProcessor) validateNodePolicies(nodeName string, policies map[string]any) error {
	for policyName, raw := range policies {
		if _, ok := p.policies.Types[policyName]; !ok {
			return &Error{Code: CodePolicyNotDefined, Message: fmt.Sprintf("node %q references undefined policy %q", nodeName, policyName), Names: []string{nodeName, policyName}}
		}
		policyBody, err := requireMap(raw, fmt.Sprintf("node %q policy %q", nodeName, policyName))
		if err != nil {
			return err
		}
		rulesRaw, ok := policyBody["rules"]
		if !ok {
			continue
		}
		rules, err := requireSlice(rulesRaw, fmt.Sprintf("node %q policy %q rules", nodeName, policyName))
		if err != nil {
			return err
		}
		for i, ruleRaw := range rules {
			ruleMap, err := requireMap(ruleRaw, fmt.Sprintf("node %q policy %q rules[%d]", nodeName, policyName, i))
			if err != nil {
				return err
			}
			ruleType, err := requireString(ruleMap["type"], fmt.Sprintf("node %q policy %q rules[%d].type", nodeName, policyName, i))
			if err != nil {
				return err
			}
			if _, ok := p.policies.Rules[ruleType]; !ok {
				return &Error{Code: CodeRuleNotDefined, Message: fmt.Sprintf("node %q policy %q references undefined rule %q", nodeName, policyName, ruleType), Names: []string{nodeName, policyName, ruleType}}
			}
		}
	}
	return nil
}
