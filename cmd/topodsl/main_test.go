package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
application_template:
  name: demo
  topology:
    - name: web
      type: cloudify.nodes.Root
types:
  cloudify.nodes.Root: {}
`

func TestParseCommand_PrintsSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parse", path})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "application: demo")
	assert.Contains(t, out.String(), "web")
}

func TestValidateCommand_ReportsErrorOnMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.yaml")})
	err := rootCmd.Execute()
	require.Error(t, err)
}
