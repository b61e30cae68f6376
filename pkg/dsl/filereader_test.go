package dsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSContentReader_ReadsRealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types: {}\n"), 0o644))

	content, err := defaultContentReader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "types: {}\n", string(content))
}

func TestOSContentReader_MissingFile(t *testing.T) {
	_, err := defaultContentReader.ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
