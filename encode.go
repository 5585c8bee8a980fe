package configkit

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-configkit/pkg/activity"
)

// leaf is one non-map value reached while walking a document, addressed by
// its top-level name and the map keys below it.
type leaf struct {
	name  string
	path  []string
	value any
}

func (l leaf) ref() string {
	return slotRef(l.name, l.path)
}

// flatten walks value depth-first in sorted key order and returns its leaves.
// Empty maps produce no leaves.
func flatten(name string, value any) []leaf {
	var out []leaf
	var walk func(path []string, value any)
	walk = func(path []string, value any) {
		m, ok := asMap(value)
		if !ok {
			out = append(out, leaf{name: name, path: path, value: value})
			return
		}
		for _, key := range sortedKeys(m) {
			next := make([]string, len(path), len(path)+1)
			copy(next, path)
			walk(append(next, key), m[key])
		}
	}
	walk(nil, value)
	return out
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	return stringKeyed(rv)
}

// Load writes tree into the store. Each leaf becomes a scalar slot or a
// composite cell keyed by its comma-joined path, paired with a declared kind.
// A top-level name that collides with a default slot evicts the default
// first. Values are written verbatim; $ references are left for Resolve.
func (s *Store) Load(tree map[string]any) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(tree) == 0 {
		return nil
	}
	if s.Tagged() {
		if _, err := s.observe("load", typesArray).Eval("array set " + typesArray + " {}"); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(tree) {
		leaves := flatten(name, tree[name])
		if len(leaves) == 0 {
			continue
		}
		if err := s.evict(name); err != nil {
			return err
		}
		if err := s.reshape(name, len(leaves[0].path) > 0); err != nil {
			return err
		}
		for _, l := range leaves {
			if err := s.writeLeaf(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// reshape clears name when a previous document stored it with the other
// shape, so a scalar can replace an array and the reverse.
func (s *Store) reshape(name string, wantArray bool) error {
	exists, err := s.exists("load", name)
	if err != nil || !exists {
		return err
	}
	array, err := s.isArray("load", name)
	if err != nil {
		return err
	}
	if array == wantArray {
		return nil
	}
	if err := s.unset("load", name); err != nil {
		return err
	}
	return s.dropKinds(name)
}

func (s *Store) writeLeaf(l leaf) error {
	ref := l.ref()
	literal, err := EncodeValue(l.value)
	if err != nil {
		return fmt.Errorf("configkit: encode %s: %w", ref, err)
	}
	if err := s.write("load", ref, literal); err != nil {
		return err
	}
	kind := KindOf(l.value)
	if s.Tagged() {
		if err := s.write("load", kindRef(ref), string(kind)); err != nil {
			return err
		}
	}
	s.emit(activity.SlotWritten(s.id, ref, string(kind), literal))
	return nil
}

func kindRef(ref string) string {
	return typesArray + "(" + ref + ")"
}

// LoadOption configures LoadTrees.
type LoadOption func(*loadConfig)

type loadConfig struct {
	store     *Store
	resolve   bool
	storeOpts []StoreOption
}

// IntoStore loads into an existing store instead of a new one.
func IntoStore(s *Store) LoadOption {
	return func(cfg *loadConfig) {
		cfg.store = s
	}
}

// WithResolution runs Resolve once every tree has been loaded.
func WithResolution() LoadOption {
	return func(cfg *loadConfig) {
		cfg.resolve = true
	}
}

// WithStoreOptions configures the store created when IntoStore is absent.
func WithStoreOptions(opts ...StoreOption) LoadOption {
	return func(cfg *loadConfig) {
		cfg.storeOpts = append(cfg.storeOpts, opts...)
	}
}

// LoadTrees loads trees in order into one store, so later trees overwrite
// slots written by earlier ones and may reference them.
func LoadTrees(trees []map[string]any, opts ...LoadOption) (*Store, error) {
	cfg := loadConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	s := cfg.store
	if s == nil {
		created, err := NewStore(cfg.storeOpts...)
		if err != nil {
			return nil, err
		}
		s = created
	}
	for _, tree := range trees {
		if err := s.Load(tree); err != nil {
			return nil, err
		}
	}
	if cfg.resolve {
		if _, err := s.Resolve(); err != nil {
			return nil, err
		}
	}
	return s, nil
}
