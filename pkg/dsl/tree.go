package dsl

import "fmt"

// The document tree produced by the YAML loader is a union of scalar,
// sequence and mapping nodes decoded as map[string]any, []any and plain Go
// scalars. These helpers give that union typed accessors that fail cleanly
// (returning a structured Error) when a node is not of the expected shape,
// instead of panicking on a bad type assertion.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// requireMap asserts that v is a mapping, returning a CodeSchemaViolation
// Error identifying where the mismatch was found.
func requireMap(v any, context string) (map[string]any, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, &Error{Code: CodeSchemaViolation, Message: fmt.Sprintf("expected %s to be a mapping", context)}
	}
	return m, nil
}

func requireSlice(v any, context string) ([]any, error) {
	s, ok := asSlice(v)
	if !ok {
		return nil, &Error{Code: CodeSchemaViolation, Message: fmt.Sprintf("expected %s to be a sequence", context)}
	}
	return s, nil
}

func requireString(v any, context string) (string, error) {
	s, ok := asString(v)
	if !ok {
		return "", &Error{Code: CodeSchemaViolation, Message: fmt.Sprintf("expected %s to be a string", context)}
	}
	return s, nil
}

// stringSlice decodes a sequence of strings, failing if any element isn't one.
func stringSlice(v any, context string) ([]string, error) {
	raw, err := requireSlice(v, context)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := asString(item)
		if !ok {
			return nil, &Error{Code: CodeSchemaViolation, Message: fmt.Sprintf("expected %s[%d] to be a string", context, i)}
		}
		out = append(out, s)
	}
	return out, nil
}

// deepCopy returns a structural copy of a decoded YAML tree (nested
// map[string]any / []any / scalars), so that merges and overlays never
// mutate a shared ancestor node.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	copied := deepCopy(m)
	cm, _ := copied.(map[string]any)
	return cm
}
