// Package files reads and writes the YAML and JSON documents and store
// scripts that configkit converts between.
package files

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-configkit"
	"github.com/goliatone/go-configkit/layering"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads each YAML document and merges them left to right. Empty
// documents contribute nothing.
func LoadYAML(paths ...string) (map[string]any, error) {
	return loadChain(readYAML, paths)
}

// LoadDocuments reads YAML and JSON documents, picking the decoder by
// extension, and merges them left to right.
func LoadDocuments(paths ...string) (map[string]any, error) {
	return loadChain(readDocument, paths)
}

func loadChain(read func(string) (map[string]any, error), paths []string) (map[string]any, error) {
	sources := make([]layering.Source, 0, len(paths))
	for i, path := range paths {
		tree, err := read(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, layering.Source{Name: path, Priority: i, Tree: tree})
	}
	return layering.NewChain(sources...).Merge(), nil
}

func readDocument(path string) (map[string]any, error) {
	if IsJSON(path) {
		return readJSON(path)
	}
	return readYAML(path)
}

// readJSON accepts JSONC: comments and trailing commas are stripped first.
func readJSON(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", configkit.ErrParse, path, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level must be an object, got %T", configkit.ErrParse, path, raw)
	}
	return tree, nil
}

func readYAML(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", configkit.ErrParse, path, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level must be a mapping, got %T", configkit.ErrParse, path, raw)
	}
	return tree, nil
}

// normalize converts maps with non-string keys into map[string]any and JSON
// numbers into int or float64.
func normalize(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for key, elem := range v {
			v[key] = normalize(elem)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[fmt.Sprint(key)] = normalize(elem)
		}
		return out
	case []any:
		for i, elem := range v {
			v[i] = normalize(elem)
		}
		return v
	}
	return value
}

// WriteYAML writes tree to path with sorted keys.
func WriteYAML(path string, tree map[string]any) error {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("configkit: marshal %s: %w", path, err)
	}
	return writeFile(path, data)
}

// SourceScripts evaluates each script file into s in order.
func SourceScripts(s *configkit.Store, paths ...string) error {
	for _, path := range paths {
		data, err := readFile(path)
		if err != nil {
			return err
		}
		if err := s.Source(string(data)); err != nil {
			return fmt.Errorf("%w: %s: %w", configkit.ErrParse, path, err)
		}
	}
	return nil
}

// WriteScript writes the persisted form of s to path.
func WriteScript(path string, s *configkit.Store) error {
	lines, err := s.PersistedForm()
	if err != nil {
		return err
	}
	return writeFile(path, []byte(strings.Join(lines, "\n")+"\n"))
}

// LoadMixed sources every script among paths, then loads the merged YAML and
// JSON documents, then resolves references when resolve is set. Scripts come
// first so document values can reference the variables they define.
func LoadMixed(s *configkit.Store, resolve bool, paths ...string) error {
	var scripts, documents []string
	for _, path := range paths {
		if IsDocument(path) {
			documents = append(documents, path)
			continue
		}
		scripts = append(scripts, path)
	}
	if err := SourceScripts(s, scripts...); err != nil {
		return err
	}
	if len(documents) > 0 {
		tree, err := LoadDocuments(documents...)
		if err != nil {
			return err
		}
		if err := s.Load(tree); err != nil {
			return err
		}
	}
	if resolve {
		if _, err := s.Resolve(); err != nil {
			return err
		}
	}
	return nil
}

// IsYAML reports whether path has a .yaml or .yml extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// IsJSON reports whether path has a .json or .jsonc extension.
func IsJSON(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	}
	return false
}

// IsDocument reports whether path holds a YAML or JSON document rather than
// a store script.
func IsDocument(path string) bool {
	return IsYAML(path) || IsJSON(path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", configkit.ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
