package dsl

import (
	_ "embed"

	"github.com/goccy/go-yaml"
)

//go:embed resources/alias-mappings.yaml
var defaultAliasMappingYAML []byte

// AliasMap is a mapping from a logical import name to the concrete path it
// should resolve to. A name absent from the map resolves to itself.
type AliasMap map[string]string

// resolve applies alias mapping: present keys substitute their value,
// anything else passes through unchanged.
func (m AliasMap) resolve(name string) string {
	if m == nil {
		return name
	}
	if mapped, ok := m[name]; ok {
		return mapped
	}
	return name
}

// DefaultAliasMap loads the library's bundled alias table. It is reparsed
// on every call rather than cached, matching the no-caching-across-invocations
// resource model: callers that want a fixed table should load it once and
// pass it explicitly to Parse.
func DefaultAliasMap() (AliasMap, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(defaultAliasMappingYAML, &raw); err != nil {
		return nil, &Error{Code: CodeYAMLParseFailure, Message: "failed to parse bundled alias map: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]string{}
	}
	return AliasMap(raw), nil
}
