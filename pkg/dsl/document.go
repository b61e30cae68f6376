package dsl

import "fmt"

// Document wraps the generic YAML tree (map[string]any / []any / scalars)
// produced by the loader and parsed by the merger, giving named, typed
// access to each top-level section without eagerly struct-izing the whole
// tree. Sections the document doesn't define decode to nil or to empty maps.
type Document struct {
	tree map[string]any
}

func newDocument(tree map[string]any) Document {
	return Document{tree: tree}
}

// Imports returns the document's import references, in declaration order.
func (d Document) Imports() ([]string, error) {
	v, ok := d.tree["imports"]
	if !ok {
		return nil, nil
	}
	return stringSlice(v, "imports")
}

// ApplicationTemplate is the named topology a document declares.
type ApplicationTemplate struct {
	Name     string
	Topology []NodeDecl
}

// NodeDecl is one node declaration within a topology.
type NodeDecl struct {
	Name       string
	Type       string
	Properties map[string]any
	Workflows  map[string]any
	Policies   map[string]any
}

func (d Document) ApplicationTemplate() (*ApplicationTemplate, error) {
	v, ok := d.tree["application_template"]
	if !ok {
		return nil, nil
	}
	m, err := requireMap(v, "application_template")
	if err != nil {
		return nil, err
	}
	name, err := requireString(m["name"], "application_template.name")
	if err != nil {
		return nil, err
	}
	rawTopology, err := requireSlice(m["topology"], "application_template.topology")
	if err != nil {
		return nil, err
	}
	topology := make([]NodeDecl, 0, len(rawTopology))
	for i, item := range rawTopology {
		nodeMap, err := requireMap(item, contextf("application_template.topology[%d]", i))
		if err != nil {
			return nil, err
		}
		node, err := parseNodeDecl(nodeMap)
		if err != nil {
			return nil, err
		}
		topology = append(topology, node)
	}
	return &ApplicationTemplate{Name: name, Topology: topology}, nil
}

func parseNodeDecl(m map[string]any) (NodeDecl, error) {
	name, err := requireString(m["name"], "topology node name")
	if err != nil {
		return NodeDecl{}, err
	}
	typeName, err := requireString(m["type"], "topology node type")
	if err != nil {
		return NodeDecl{}, err
	}
	node := NodeDecl{Name: name, Type: typeName}
	if raw, ok := m["properties"]; ok {
		props, err := requireMap(raw, "node properties")
		if err != nil {
			return NodeDecl{}, err
		}
		node.Properties = props
	}
	if raw, ok := m["workflows"]; ok {
		wf, err := requireMap(raw, "node workflows")
		if err != nil {
			return NodeDecl{}, err
		}
		node.Workflows = wf
	}
	if raw, ok := m["policies"]; ok {
		pol, err := requireMap(raw, "node policies")
		if err != nil {
			return NodeDecl{}, err
		}
		node.Policies = pol
	}
	return node, nil
}

// InterfaceRef is one element of a TypeDecl's interfaces list: either an
// implicit reference by name alone (autowiring picks the plugin) or an
// explicit {interface: plugin} binding.
type InterfaceRef struct {
	Name     string
	Explicit bool
	Plugin   string
}

// TypeDecl is one named entry under the document's types section.
type TypeDecl struct {
	DerivedFrom string
	Interfaces  []InterfaceRef
	Properties  map[string]any
	Workflows   map[string]any
	Policies    map[string]any
}

func (d Document) Types() (map[string]TypeDecl, error) {
	v, ok := d.tree["types"]
	if !ok {
		return map[string]TypeDecl{}, nil
	}
	m, err := requireMap(v, "types")
	if err != nil {
		return nil, err
	}
	out := make(map[string]TypeDecl, len(m))
	for name, raw := range m {
		typeMap, err := requireMap(raw, contextf("types[%s]", name))
		if err != nil {
			return nil, err
		}
		decl, err := parseTypeDecl(typeMap)
		if err != nil {
			return nil, err
		}
		out[name] = decl
	}
	return out, nil
}

func parseTypeDecl(m map[string]any) (TypeDecl, error) {
	var decl TypeDecl
	if raw, ok := m["derived_from"]; ok {
		s, err := requireString(raw, "derived_from")
		if err != nil {
			return TypeDecl{}, err
		}
		decl.DerivedFrom = s
	}
	if raw, ok := m["interfaces"]; ok {
		seq, err := requireSlice(raw, "interfaces")
		if err != nil {
			return TypeDecl{}, err
		}
		decl.Interfaces = make([]InterfaceRef, 0, len(seq))
		for i, item := range seq {
			ref, err := parseInterfaceElement(item, i)
			if err != nil {
				return TypeDecl{}, err
			}
			decl.Interfaces = append(decl.Interfaces, ref)
		}
	}
	if raw, ok := m["properties"]; ok {
		props, err := requireMap(raw, "type properties")
		if err != nil {
			return TypeDecl{}, err
		}
		decl.Properties = props
	}
	if raw, ok := m["workflows"]; ok {
		wf, err := requireMap(raw, "type workflows")
		if err != nil {
			return TypeDecl{}, err
		}
		decl.Workflows = wf
	}
	if raw, ok := m["policies"]; ok {
		pol, err := requireMap(raw, "type policies")
		if err != nil {
			return TypeDecl{}, err
		}
		decl.Policies = pol
	}
	return decl, nil
}

// parseInterfaceElement decodes one element of a type's interfaces list.
// A bare string is an implicit reference; a single-key mapping is an
// explicit {interface: plugin} binding.
func parseInterfaceElement(v any, index int) (InterfaceRef, error) {
	if s, ok := asString(v); ok {
		return InterfaceRef{Name: s}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return InterfaceRef{}, &Error{Code: CodeSchemaViolation, Message: contextf("interfaces[%d] must be a string or a single-key mapping", index)}
	}
	if len(m) != 1 {
		return InterfaceRef{}, &Error{Code: CodeSchemaViolation, Message: contextf("interfaces[%d] mapping must have exactly one key", index)}
	}
	for name, pluginVal := range m {
		plugin, err := requireString(pluginVal, contextf("interfaces[%d].%s", index, name))
		if err != nil {
			return InterfaceRef{}, err
		}
		return InterfaceRef{Name: name, Explicit: true, Plugin: plugin}, nil
	}
	panic("unreachable")
}

// PluginDecl is one named entry under the document's plugins section.
type PluginDecl struct {
	Interface string
	URL       string
	Raw       map[string]any
}

func (d Document) Plugins() (map[string]PluginDecl, error) {
	v, ok := d.tree["plugins"]
	if !ok {
		return map[string]PluginDecl{}, nil
	}
	m, err := requireMap(v, "plugins")
	if err != nil {
		return nil, err
	}
	out := make(map[string]PluginDecl, len(m))
	for name, raw := range m {
		pluginMap, err := requireMap(raw, contextf("plugins[%s]", name))
		if err != nil {
			return nil, err
		}
		props, err := requireMap(pluginMap["properties"], contextf("plugins[%s].properties", name))
		if err != nil {
			return nil, err
		}
		iface, err := requireString(props["interface"], contextf("plugins[%s].properties.interface", name))
		if err != nil {
			return nil, err
		}
		url, _ := asString(props["url"])
		out[name] = PluginDecl{Interface: iface, URL: url, Raw: props}
	}
	return out, nil
}

// InterfaceDecl is one named entry under the document's interfaces section.
type InterfaceDecl struct {
	Operations []string
}

func (d Document) Interfaces() (map[string]InterfaceDecl, error) {
	v, ok := d.tree["interfaces"]
	if !ok {
		return map[string]InterfaceDecl{}, nil
	}
	m, err := requireMap(v, "interfaces")
	if err != nil {
		return nil, err
	}
	out := make(map[string]InterfaceDecl, len(m))
	for name, raw := range m {
		ifaceMap, err := requireMap(raw, contextf("interfaces[%s]", name))
		if err != nil {
			return nil, err
		}
		ops, err := stringSlice(ifaceMap["operations"], contextf("interfaces[%s].operations", name))
		if err != nil {
			return nil, err
		}
		out[name] = InterfaceDecl{Operations: ops}
	}
	return out, nil
}

// Body is a workflow or policy body: either an inline text under a
// convention-specific key ("radial" for workflows, "policy" for policy
// events), or a {ref: path} reference to a file's textual content.
type Body struct {
	IsRef  bool
	Ref    string
	Inline string
}

// parseBody decodes one ref-or-inline body. inlineKey names the convention
// key holding inline content for this body's context ("radial" or "policy").
func parseBody(v any, inlineKey string) (Body, error) {
	m, err := requireMap(v, "workflow or policy body")
	if err != nil {
		return Body{}, err
	}
	if raw, ok := m["ref"]; ok {
		ref, err := requireString(raw, "ref")
		if err != nil {
			return Body{}, err
		}
		return Body{IsRef: true, Ref: ref}, nil
	}
	inline, err := requireString(m[inlineKey], inlineKey)
	if err != nil {
		return Body{}, err
	}
	return Body{Inline: inline}, nil
}

// Workflows returns the document's top-level workflows, keyed by name, as
// unresolved bodies.
func (d Document) Workflows() (map[string]Body, error) {
	v, ok := d.tree["workflows"]
	if !ok {
		return map[string]Body{}, nil
	}
	m, err := requireMap(v, "workflows")
	if err != nil {
		return nil, err
	}
	out := make(map[string]Body, len(m))
	for name, raw := range m {
		body, err := parseBody(raw, "radial")
		if err != nil {
			return nil, err
		}
		out[name] = body
	}
	return out, nil
}

// PolicyType is one named entry under policies.types.
type PolicyType struct {
	Message string
	Body    Body
}

// PoliciesSection is the document's top-level policies section.
type PoliciesSection struct {
	Types map[string]PolicyType
	Rules map[string]any
}

func (d Document) Policies() (PoliciesSection, error) {
	v, ok := d.tree["policies"]
	if !ok {
		return PoliciesSection{Types: map[string]PolicyType{}, Rules: map[string]any{}}, nil
	}
	m, err := requireMap(v, "policies")
	if err != nil {
		return PoliciesSection{}, err
	}
	out := PoliciesSection{Types: map[string]PolicyType{}, Rules: map[string]any{}}
	if raw, ok := m["types"]; ok {
		types, err := requireMap(raw, "policies.types")
		if err != nil {
			return PoliciesSection{}, err
		}
		for name, entryRaw := range types {
			entry, err := requireMap(entryRaw, contextf("policies.types[%s]", name))
			if err != nil {
				return PoliciesSection{}, err
			}
			message, _ := asString(entry["message"])
			body, err := parseBody(entry, "policy")
			if err != nil {
				return PoliciesSection{}, err
			}
			out.Types[name] = PolicyType{Message: message, Body: body}
		}
	}
	if raw, ok := m["rules"]; ok {
		rules, err := requireMap(raw, "policies.rules")
		if err != nil {
			return PoliciesSection{}, err
		}
		out.Rules = rules
	}
	return out, nil
}

func contextf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
