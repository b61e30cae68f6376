package dsl

// resolveBody implements §4.6's resolve_ref_or_inline primitive: a ref body
// is read from disk (through the alias table) and returns the file's text;
// an inline body returns its inline text directly.
func resolveBody(body Body, reader ContentReader, aliases AliasMap) (string, error) {
	if !body.IsRef {
		return body.Inline, nil
	}
	path := aliases.resolve(body.Ref)
	raw, err := reader.ReadFile(path)
	if err != nil {
		return "", &Error{Code: CodeRefOpenFailed, Message: "failed to open ref " + path + ": " + err.Error()}
	}
	return string(raw), nil
}

// resolveWorkflowOverlay merges a type's and a node's raw workflow overlays
// (node wins on shared keys) and resolves each resulting body to text.
func (p *nodeProcessor) resolveWorkflowOverlay(typeLevel, nodeLevel map[string]any) (map[string]string, error) {
	merged := mergeOverlay(typeLevel, nodeLevel)
	out := make(map[string]string, len(merged))
	for name, raw := range merged {
		body, err := parseBody(raw, "radial")
		if err != nil {
			return nil, err
		}
		resolved, err := resolveBody(body, p.reader, p.aliases)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

// resolveTopLevelWorkflows implements §4.6's top-level workflow mapping:
// each declared workflow name resolves to its body's text.
func resolveTopLevelWorkflows(workflows map[string]Body, reader ContentReader, aliases AliasMap) (map[string]string, error) {
	out := make(map[string]string, len(workflows))
	for name, body := range workflows {
		resolved, err := resolveBody(body, reader, aliases)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

// PolicyEvent is one resolved entry from policies.types.
type PolicyEvent struct {
	Message string
	Policy  string
}

// resolveTopLevelPolicies implements §4.6's split of the top-level policies
// section into policies_events (resolved) and rules (copied verbatim).
func resolveTopLevelPolicies(policies PoliciesSection, reader ContentReader, aliases AliasMap) (map[string]PolicyEvent, map[string]any, error) {
	events := make(map[string]PolicyEvent, len(policies.Types))
	for name, entry := range policies.Types {
		resolved, err := resolveBody(entry.Body, reader, aliases)
		if err != nil {
			return nil, nil, err
		}
		events[name] = PolicyEvent{Message: entry.Message, Policy: resolved}
	}
	return events, deepCopyMap(policies.Rules), nil
}
