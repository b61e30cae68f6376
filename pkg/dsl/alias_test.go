package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasMap_Resolve(t *testing.T) {
	m := AliasMap{"logical": "/concrete/path.yaml"}
	assert.Equal(t, "/concrete/path.yaml", m.resolve("logical"))
	assert.Equal(t, "unmapped.yaml", m.resolve("unmapped.yaml"))

	var nilMap AliasMap
	assert.Equal(t, "anything", nilMap.resolve("anything"))
}

func TestDefaultAliasMap_LoadsEmpty(t *testing.T) {
	m, err := DefaultAliasMap()
	require.NoError(t, err)
	assert.Empty(t, m)
}
