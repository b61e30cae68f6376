package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLoader_Locate_RelativeToImporter(t *testing.T) {
	reader := memReader{"/app/lib/shared.yaml": "types: {}\n"}
	loader := newImportLoader(reader, AliasMap{})
	path, searched, err := loader.locate("shared.yaml", "/app/lib/root.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/app/lib/shared.yaml", path)
	assert.Len(t, searched, 2)
}

func TestImportLoader_Locate_NotFound(t *testing.T) {
	loader := newImportLoader(memReader{}, AliasMap{})
	_, _, err := loader.locate("missing.yaml", "/app/root.yaml")
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeImportNotFound, dslErr.Code)
	assert.NotEmpty(t, dslErr.Searched)
}

func TestImportLoader_Locate_AppliesAlias(t *testing.T) {
	reader := memReader{"/resolved/path.yaml": "types: {}\n"}
	loader := newImportLoader(reader, AliasMap{"logical": "/resolved/path.yaml"})
	path, _, err := loader.locate("logical", "")
	require.NoError(t, err)
	assert.Equal(t, "/resolved/path.yaml", path)
}

func TestMergeOne_NoOverrideConflict(t *testing.T) {
	combined := map[string]any{
		"interfaces": map[string]any{"i1": map[string]any{"operations": []any{"install"}}},
	}
	imported := map[string]any{
		"interfaces": map[string]any{"i1": map[string]any{"operations": []any{"terminate"}}},
	}
	err := mergeOne(combined, imported)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeMergeConflict, dslErr.Code)
}

func TestMergeOne_NonMergeableSection(t *testing.T) {
	combined := map[string]any{
		"application_template": map[string]any{"name": "A"},
	}
	imported := map[string]any{
		"application_template": map[string]any{"name": "B"},
	}
	err := mergeOne(combined, imported)
	require.Error(t, err)
	var dslErr *Error
	require.ErrorAs(t, err, &dslErr)
	assert.Equal(t, CodeNonMergeable, dslErr.Code)
}

func TestMergeOne_AssignsVerbatimWhenAbsent(t *testing.T) {
	combined := map[string]any{}
	imported := map[string]any{"types": map[string]any{"t": map[string]any{}}}
	err := mergeOne(combined, imported)
	require.NoError(t, err)
	assert.Contains(t, combined, "types")
}

func TestMergePolicies_NestedNoOverride(t *testing.T) {
	combined := map[string]any{
		"policies": map[string]any{
			"types": map[string]any{"p1": map[string]any{"message": "m", "policy": "body"}},
		},
	}
	imported := map[string]any{
		"policies": map[string]any{
			"rules": map[string]any{"r1": map[string]any{}},
		},
	}
	err := mergeOne(combined, imported)
	require.NoError(t, err)
	policies := combined["policies"].(map[string]any)
	assert.Contains(t, policies, "types")
	assert.Contains(t, policies, "rules")
}
