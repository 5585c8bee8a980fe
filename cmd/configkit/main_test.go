package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-configkit"
	"github.com/goliatone/go-configkit/tcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestToTclWritesScript(t *testing.T) {
	out, _, err := run(t, "to-tcl", "--resolve", filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "# Generated by configkit")
	assert.Contains(t, out, "set ep https://x/v1")
	assert.Contains(t, out, "set server(port) 8080")
	assert.Contains(t, out, "set __configkit_types__(server(port)) number")
}

func TestToTclThenToYAMLRoundTrip(t *testing.T) {
	script := filepath.Join(t.TempDir(), "app.tcl")
	_, _, err := run(t, "to-tcl", "--output", script, filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)

	out, _, err := run(t, "to-yaml", script)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{
		"base":   "https://x",
		"ver":    "v1",
		"ep":     "$base/$ver",
		"server": map[string]any{"port": 8080},
	}, tree)
}

func TestToYAMLResolveAndOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	_, _, err := run(t, "to-yaml", "--resolve", "--output", path, filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(data, &tree))
	assert.Equal(t, "https://x/v1", tree["ep"])
}

func TestToYAMLRejectsUnknownMode(t *testing.T) {
	_, _, err := run(t, "to-yaml", "--mode", "fuzzy", filepath.Join("testdata", "app.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestMergeCommand(t *testing.T) {
	out, _, err := run(t, "merge", filepath.Join("testdata", "app.yaml"), filepath.Join("testdata", "extra.yaml"))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{"port": 9090}, tree["server"])
	assert.Equal(t, []any{"blue"}, tree["tags"])
}

func TestMissingInputExitCode(t *testing.T) {
	_, _, err := run(t, "merge", filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, configkit.ErrNotFound))
	assert.Equal(t, ExitCodeNotFound, exitCode(err))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitCodeParse, exitCode(fmt.Errorf("wrap: %w", configkit.ErrParse)))
	assert.Equal(t, ExitCodeError, exitCode(errors.New("other")))
}

func TestLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "to-tcl", filepath.Join("testdata", "app.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")

	_, stderr, err := run(t, "--log-level", "debug", "to-tcl", filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "configkit evaluator call")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "configkit version dev\n", out)
}

func TestSlotsCommandListsSlots(t *testing.T) {
	out, _, err := run(t, "slots", "--resolve", filepath.Join("testdata", "app.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "server(port)")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "https://x/v1")
	assert.NotContains(t, out, "__configkit_types__")
	assert.NotContains(t, out, "tcl_platform")
}

func TestMergeAcceptsJSONC(t *testing.T) {
	out, _, err := run(t, "merge", filepath.Join("testdata", "app.yaml"), filepath.Join("testdata", "port.jsonc"))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{"port": 7070}, tree["server"])
	assert.Equal(t, "v1", tree["ver"])
}

func TestExprEngineFlag(t *testing.T) {
	out, _, err := run(t, "--expr-engine", "cel", "to-yaml", filepath.Join("testdata", "calc.tcl"))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, map[string]any{"name": "svc", "port": 8080, "width": 4}, tree)

	out, _, err = run(t, "to-yaml", filepath.Join("testdata", "sum.tcl"))
	require.NoError(t, err)
	assert.Equal(t, "port: 8080\n", out)

	_, _, err = run(t, "--expr-engine", "lua", "to-yaml", filepath.Join("testdata", "sum.tcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown expr engine")
}

func TestExprEngineJSRequiresBuildTag(t *testing.T) {
	if tcl.JSEngineAvailable() {
		out, _, err := run(t, "--expr-engine", "js", "to-yaml", filepath.Join("testdata", "sum.tcl"))
		require.NoError(t, err)
		assert.Equal(t, "port: 8080\n", out)
		return
	}
	_, _, err := run(t, "--expr-engine", "js", "to-yaml", filepath.Join("testdata", "sum.tcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "js_eval")
}
