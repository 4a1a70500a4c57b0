package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

func TestFormatError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, "boom", formatError(errors.New("boom")))
	})

	t.Run("multi-finding validation error lists each finding", func(t *testing.T) {
		ve := &plugin.ValidationError{}
		ve.Add("first problem")
		ve.Add("second problem")

		msg := formatError(ve)
		assert.Contains(t, msg, "- first problem")
		assert.Contains(t, msg, "- second problem")
	})

	t.Run("hook failure shows details when verbose", func(t *testing.T) {
		verbose = true
		defer func() { verbose = false }()

		err := &plugin.HookFailureError{
			Plugin: "core",
			Phase:  plugin.PhaseInstall,
			Err:    errors.New("connection refused"),
		}
		assert.Contains(t, formatError(err), "Technical details: connection refused")
	})
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestRunGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plugins:
  - name: core
  - name: app
    dependencies:
      - name: core
`), 0o644))

	graphFormat = "dot"
	defer func() { graphFormat = "tree" }()

	assert.NoError(t, runGraph(graphCmd, []string{path}))
}

func TestRunResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plugins:
  - name: core
    version: 1.0.0
`), 0o644))

	assert.NoError(t, runResolve(resolveCmd, []string{path}))
}

func TestRunCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plugins:
  - name: core
  - name: app
    dependencies:
      - name: core
`), 0o644))

	assert.NoError(t, runCheck(checkCmd, []string{path}))
}
