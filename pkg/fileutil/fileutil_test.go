package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.yaml")
	assert.NoError(t, os.WriteFile(file, []byte("types: {}\n"), 0o644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.yaml")))
	assert.False(t, FileExists(dir))
}
