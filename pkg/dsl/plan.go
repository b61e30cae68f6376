package dsl

import (
	"github.com/github/topodsl/pkg/logger"
)

var planLog = logger.New("dsl:plan")

// Plan is the fully resolved, validated output of a parse: a flattened
// deployment topology ready for a caller to act on or serialize.
type Plan struct {
	Name           string
	Nodes          []ProcessedNode
	Workflows      map[string]string
	Policies       map[string]map[string]any
	PoliciesEvents map[string]PolicyEvent
	Rules          map[string]any
}

// Option configures a Parse/ParseFromFile invocation.
type Option func(*parseConfig)

type parseConfig struct {
	aliases AliasMap
	reader  ContentReader
}

// WithAliasMap overrides the default bundled alias map.
func WithAliasMap(aliases AliasMap) Option {
	return func(c *parseConfig) { c.aliases = aliases }
}

// WithContentReader overrides the default filesystem reader, letting
// embedders serve import and ref content from memory.
func WithContentReader(reader ContentReader) Option {
	return func(c *parseConfig) { c.reader = reader }
}

func resolveConfig(opts []Option) (parseConfig, error) {
	cfg := parseConfig{reader: defaultContentReader}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.aliases == nil {
		defaults, err := DefaultAliasMap()
		if err != nil {
			return parseConfig{}, err
		}
		cfg.aliases = defaults
	}
	return cfg, nil
}

// Parse resolves a DSL document supplied as text. Its imports, if any, are
// resolved as local paths (or through the alias map) relative to the
// current working directory, since the root has no file path of its own.
func Parse(documentText string, opts ...Option) (*Plan, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	return parse(documentText, "", cfg)
}

// ParseFromFile resolves a DSL document loaded from path. Its imports are
// resolved relative to path's directory.
func ParseFromFile(path string, opts ...Option) (*Plan, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	resolvedPath := cfg.aliases.resolve(path)
	raw, err := cfg.reader.ReadFile(resolvedPath)
	if err != nil {
		return nil, &Error{Code: CodeRefOpenFailed, Message: "failed to open document: " + resolvedPath + ": " + err.Error()}
	}
	return parse(string(raw), resolvedPath, cfg)
}

func parse(documentText, rootPath string, cfg parseConfig) (*Plan, error) {
	planLog.Print("starting parse")

	loader := newImportLoader(cfg.reader, cfg.aliases)

	rootTree, err := loader.parseYAML([]byte(documentText))
	if err != nil {
		return nil, err
	}
	if err := validateImportsSchema(rootTree); err != nil {
		return nil, err
	}

	ordered, err := loader.buildOrderedImports(rootTree, rootPath)
	if err != nil {
		return nil, err
	}

	combined := deepCopyMap(rootTree)
	delete(combined, "imports")
	combined, err = loader.mergeImports(combined, ordered)
	if err != nil {
		return nil, err
	}

	if err := validateDocumentSchema(combined); err != nil {
		return nil, err
	}

	doc := newDocument(combined)

	appTemplate, err := doc.ApplicationTemplate()
	if err != nil {
		return nil, err
	}
	if appTemplate == nil {
		return &Plan{Workflows: map[string]string{}, Policies: map[string]map[string]any{}, PoliciesEvents: map[string]PolicyEvent{}, Rules: map[string]any{}}, nil
	}

	if err := validateNoDuplicateNodeNames(appTemplate.Topology); err != nil {
		return nil, err
	}

	types, err := doc.Types()
	if err != nil {
		return nil, err
	}
	plugins, err := doc.Plugins()
	if err != nil {
		return nil, err
	}
	interfaces, err := doc.Interfaces()
	if err != nil {
		return nil, err
	}
	policies, err := doc.Policies()
	if err != nil {
		return nil, err
	}

	_, hasPluginsSection := combined["plugins"]

	resolver := newTypeResolver(types)
	processor := newNodeProcessor(appTemplate.Name, resolver, plugins, interfaces, hasPluginsSection, policies, cfg.reader, cfg.aliases)

	nodes := make([]ProcessedNode, 0, len(appTemplate.Topology))
	for _, decl := range appTemplate.Topology {
		node, err := processor.process(decl)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	topWorkflows, err := doc.Workflows()
	if err != nil {
		return nil, err
	}
	resolvedWorkflows, err := resolveTopLevelWorkflows(topWorkflows, cfg.reader, cfg.aliases)
	if err != nil {
		return nil, err
	}

	events, rules, err := resolveTopLevelPolicies(policies, cfg.reader, cfg.aliases)
	if err != nil {
		return nil, err
	}

	nodePolicies := map[string]map[string]any{}
	for _, node := range nodes {
		if len(node.Policies) > 0 {
			nodePolicies[node.ID] = deepCopyMap(node.Policies)
		}
	}

	planLog.Printf("parse complete: %d node(s)", len(nodes))

	return &Plan{
		Name:           appTemplate.Name,
		Nodes:          nodes,
		Workflows:      resolvedWorkflows,
		Policies:       nodePolicies,
		PoliciesEvents: events,
		Rules:          rules,
	}, nil
}

// validateNoDuplicateNodeNames enforces the node-uniqueness invariant (§3),
// failing with code 101 for one duplicated name and its count. When several
// names are duplicated, which of them is reported is not defined.
func validateNoDuplicateNodeNames(topology []NodeDecl) error {
	counts := map[string]int{}
	for _, node := range topology {
		counts[node.Name]++
	}
	for name, count := range counts {
		if count > 1 {
			return errDuplicateNode(name, count)
		}
	}
	return nil
}
