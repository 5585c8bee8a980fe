package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-configkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLMergesLeftToRight(t *testing.T) {
	tree, err := LoadYAML(filepath.Join("testdata", "base.yaml"), filepath.Join("testdata", "override.yaml"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"host": "localhost", "port": 9090}, tree["server"])
	assert.Equal(t, []any{"a", "b", "c"}, tree["hosts"])
	assert.Equal(t, true, tree["debug"])
	assert.Equal(t, "$base/$ver", tree["ep"])
}

func TestLoadYAMLEmptyDocument(t *testing.T) {
	tree, err := LoadYAML(filepath.Join("testdata", "empty.yaml"))
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestLoadYAMLErrors(t *testing.T) {
	_, err := LoadYAML(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, configkit.ErrNotFound)

	_, err = LoadYAML(filepath.Join("testdata", "broken.yaml"))
	assert.ErrorIs(t, err, configkit.ErrParse)

	_, err = LoadYAML(filepath.Join("testdata", "scalar.yaml"))
	assert.ErrorIs(t, err, configkit.ErrParse)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	tree := map[string]any{
		"name":   "svc",
		"server": map[string]any{"port": 8080},
		"ratio":  0.5,
	}

	require.NoError(t, WriteYAML(path, tree))
	got, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestScriptRoundTrip(t *testing.T) {
	tree, err := LoadYAML(filepath.Join("testdata", "base.yaml"))
	require.NoError(t, err)

	store, err := configkit.NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Load(tree))

	path := filepath.Join(t.TempDir(), "out.tcl")
	require.NoError(t, WriteScript(path, store))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Type information for configkit")

	fresh, err := configkit.NewStore()
	require.NoError(t, err)
	require.NoError(t, SourceScripts(fresh, path))

	got, err := fresh.Tree(configkit.ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestSourceScriptsErrors(t *testing.T) {
	store, err := configkit.NewStore()
	require.NoError(t, err)

	err = SourceScripts(store, filepath.Join("testdata", "missing.tcl"))
	assert.ErrorIs(t, err, configkit.ErrNotFound)

	err = SourceScripts(store, filepath.Join("testdata", "broken.tcl"))
	assert.ErrorIs(t, err, configkit.ErrParse)
}

func TestLoadMixedResolvesAcrossSources(t *testing.T) {
	store, err := configkit.NewStore()
	require.NoError(t, err)

	err = LoadMixed(store, true,
		filepath.Join("testdata", "base.yaml"),
		filepath.Join("testdata", "vars.tcl"),
	)
	require.NoError(t, err)

	tree, err := store.Tree(configkit.ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, "https://x/v1", tree["ep"])
	assert.Equal(t, "logs-eu-west-1", tree["bucket"])
	assert.Equal(t, "eu-west-1", tree["region"])
}

func TestIsYAML(t *testing.T) {
	assert.True(t, IsYAML("a.yaml"))
	assert.True(t, IsYAML("A.YML"))
	assert.False(t, IsYAML("a.tcl"))
	assert.False(t, IsYAML("yaml"))
}

func TestLoadDocumentsMergesJSONC(t *testing.T) {
	tree, err := LoadDocuments(
		filepath.Join("testdata", "base.yaml"),
		filepath.Join("testdata", "service.jsonc"),
	)
	require.NoError(t, err)

	server, ok := tree["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 7070, server["port"])
	assert.Equal(t, 2.5, server["timeout"])
	assert.Equal(t, "$base/$ver/health", tree["url"])
	assert.Equal(t, []any{"a", "b", "d"}, tree["hosts"])
}

func TestLoadDocumentsRejectsNonObjectJSON(t *testing.T) {
	_, err := LoadDocuments(filepath.Join("testdata", "list.json"))
	assert.ErrorIs(t, err, configkit.ErrParse)

	_, err = LoadDocuments(filepath.Join("testdata", "missing.jsonc"))
	assert.ErrorIs(t, err, configkit.ErrNotFound)
}

func TestLoadMixedResolvesJSONDocuments(t *testing.T) {
	store, err := configkit.NewStore()
	require.NoError(t, err)

	err = LoadMixed(store, true,
		filepath.Join("testdata", "base.yaml"),
		filepath.Join("testdata", "service.jsonc"),
	)
	require.NoError(t, err)

	tree, err := store.Tree(configkit.ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, "https://x/v1/health", tree["url"])
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsJSON("a.json"))
	assert.True(t, IsJSON("a.JSONC"))
	assert.False(t, IsJSON("a.yaml"))
	assert.True(t, IsDocument("a.yml"))
	assert.True(t, IsDocument("a.jsonc"))
	assert.False(t, IsDocument("a.tcl"))
}
