package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyAliasOpts(reader ContentReader) []Option {
	return []Option{WithAliasMap(AliasMap{}), WithContentReader(reader)}
}

func TestParse_Minimal(t *testing.T) {
	doc := `
application_template:
  name: A
  topology:
    - name: n
      type: t
types:
  t: {}
`
	plan, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.NoError(t, err)
	require.Len(t, plan.Nodes, 1)
	node := plan.Nodes[0]
	assert.Equal(t, "A.n", node.ID)
	assert.Equal(t, "t", node.Type)
	assert.Empty(t, node.Properties)
	assert.Empty(t, node.Workflows)
	assert.Empty(t, node.Policies)
	assert.Empty(t, plan.Workflows)
	assert.Empty(t, plan.PoliciesEvents)
	assert.Empty(t, plan.Rules)
}

func autowiringDoc() string {
	return `
application_template:
  name: A
  topology:
    - name: testNode
      type: test_type
types:
  test_type:
    interfaces:
      - test_interface1
interfaces:
  test_interface1:
    operations:
      - install
      - terminate
plugins:
  test_plugin:
    properties:
      interface: test_interface1
      url: https://example.invalid/plugin
`
}

func TestParse_Autowiring(t *testing.T) {
	plan, err := Parse(autowiringDoc(), emptyAliasOpts(memReader{})...)
	require.NoError(t, err)
	require.Len(t, plan.Nodes, 1)
	node := plan.Nodes[0]

	assert.Contains(t, node.Plugins, "test_plugin")
	assert.Equal(t, map[string]string{
		"install":                    "test_plugin",
		"terminate":                  "test_plugin",
		"test_interface1.install":    "test_plugin",
		"test_interface1.terminate":  "test_plugin",
	}, node.Operations)
}

func TestParse_AutowiringAmbiguity(t *testing.T) {
	doc := autowiringDoc() + `
  test_plugin2:
    properties:
      interface: test_interface1
      url: https://example.invalid/plugin2
`
	_, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeAmbiguousAutowiring, dslErr.Code)
	assert.ElementsMatch(t, []string{"test_plugin", "test_plugin2"}, dslErr.Names)
}

func TestParse_ExplicitBindingMismatch(t *testing.T) {
	doc := `
application_template:
  name: A
  topology:
    - name: n
      type: t
types:
  t:
    interfaces:
      - test_interface1: other_plugin
interfaces:
  test_interface1:
    operations: [install]
plugins:
  other_plugin:
    properties:
      interface: other_interface
`
	_, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodePluginInterfaceMismatch, dslErr.Code)
}

func TestParse_DerivationMerge(t *testing.T) {
	doc := `
application_template:
  name: A
  topology:
    - name: n
      type: child
types:
  parent:
    properties:
      a: "1"
      shared: parent
  child:
    derived_from: parent
    properties:
      b: "2"
      shared: child
`
	plan, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.NoError(t, err)
	node := plan.Nodes[0]
	assert.Equal(t, map[string]any{"a": "1", "b": "2", "shared": "child"}, node.Properties)
}

func TestParse_CircularImports(t *testing.T) {
	reader := memReader{
		"/root/x.yaml": "imports: [y.yaml]\n",
		"/root/y.yaml": "imports: [x.yaml]\n",
	}
	_, err := ParseFromFile("/root/x.yaml", emptyAliasOpts(reader)...)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeCircularImports, dslErr.Code)
	assert.Equal(t, []string{"/root/x.yaml", "/root/y.yaml", "/root/x.yaml"}, dslErr.Chain)
}

func TestParse_Idempotent(t *testing.T) {
	doc := autowiringDoc()
	plan1, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.NoError(t, err)
	plan2, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.NoError(t, err)
	assert.Equal(t, plan1, plan2)
}

func TestParse_ImportOrderIrrelevant(t *testing.T) {
	doc1 := "imports: [a.yaml, b.yaml]\napplication_template:\n  name: A\n  topology:\n    - name: n\n      type: a\n"
	doc2 := "imports: [b.yaml, a.yaml]\napplication_template:\n  name: A\n  topology:\n    - name: n\n      type: a\n"
	reader := memReader{
		"/root/a.yaml":    "types:\n  a: {}\n",
		"/root/b.yaml":    "workflows:\n  b:\n    radial: b\n",
		"/root/doc1.yaml": doc1,
		"/root/doc2.yaml": doc2,
	}

	plan1, err := ParseFromFile("/root/doc1.yaml", emptyAliasOpts(reader)...)
	require.NoError(t, err)
	plan2, err := ParseFromFile("/root/doc2.yaml", emptyAliasOpts(reader)...)
	require.NoError(t, err)
	assert.Equal(t, plan1, plan2)
}

func TestParse_DuplicateNodeNames(t *testing.T) {
	doc := `
application_template:
  name: A
  topology:
    - name: n
      type: t
    - name: n
      type: t
types:
  t: {}
`
	_, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeDuplicateNode, dslErr.Code)
}

func TestParse_DerivationCycle(t *testing.T) {
	doc := `
application_template:
  name: A
  topology:
    - name: n
      type: a
types:
  a:
    derived_from: b
  b:
    derived_from: a
`
	_, err := Parse(doc, emptyAliasOpts(memReader{})...)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeCircularDerivation, dslErr.Code)
}

// TestParse_ImportDedup checks that a file reachable by two import paths
// (directly from the root, and transitively through mid.yaml) is merged
// exactly once: merging its "types" key twice would otherwise fail with a
// NonMergeable conflict, since types is not a mergeable section.
func TestParse_ImportDedup(t *testing.T) {
	reader := memReader{
		"/root/shared.yaml": "types:\n  shared_type: {}\n",
		"/root/mid.yaml":    "imports: [shared.yaml]\n",
		"/root/root.yaml":   "imports: [shared.yaml, mid.yaml]\napplication_template:\n  name: A\n  topology:\n    - name: n\n      type: shared_type\n",
	}
	plan, err := ParseFromFile("/root/root.yaml", emptyAliasOpts(reader)...)
	require.NoError(t, err)
	require.Len(t, plan.Nodes, 1)
}
