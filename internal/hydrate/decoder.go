// Package hydrate maps store trees onto Go structs and tracks the slots that
// no struct field can hold.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Source identifies the store and decode mode a tree came from.
type Source struct {
	StoreID string
	Mode    string
}

// Result is the decoded value plus the slot references whose tree path has
// no matching field in T.
type Result[T any] struct {
	Value    T
	Unmapped []string
}

// UnmappedError is returned in strict mode when slots have no matching field.
type UnmappedError struct {
	StoreID string
	Slots   []string
}

func (e *UnmappedError) Error() string {
	return fmt.Sprintf("hydrate: store %q slots have no matching field: %s", e.StoreID, strings.Join(e.Slots, ", "))
}

// PreHook rewrites the tree before it is mapped.
type PreHook func(Source, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Source, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder maps store trees onto T through its json tags.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	useNumber bool
	strict    bool
}

func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithUseNumber decodes numbers into interface fields as json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.useNumber = true
	}
}

// WithStrict fails decoding with an UnmappedError when any slot has no
// matching field.
func WithStrict[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode maps tree onto T. Pre-hooks see a copy; tree itself is never
// modified. Unmapped slots are computed after the pre-hooks run.
func (d *Decoder[T]) Decode(src Source, tree map[string]any) (Result[T], error) {
	var result Result[T]
	if tree == nil {
		return result, fmt.Errorf("hydrate: tree is nil for store %q", src.StoreID)
	}

	current, err := cloneTree(tree)
	if err != nil {
		return result, fmt.Errorf("hydrate: copy tree for store %q: %w", src.StoreID, err)
	}
	for _, hook := range d.preHooks {
		next, err := hook(src, current)
		if err != nil {
			return result, fmt.Errorf("hydrate: pre-hook for store %q: %w", src.StoreID, err)
		}
		if next != nil {
			current = next
		}
	}

	result.Unmapped = Unmapped[T](current)
	if d.strict && len(result.Unmapped) > 0 {
		return result, &UnmappedError{StoreID: src.StoreID, Slots: result.Unmapped}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return result, fmt.Errorf("hydrate: marshal tree for store %q: %w", src.StoreID, err)
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	if d.useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(&result.Value); err != nil {
		return result, fmt.Errorf("hydrate: decode store %q (mode %s): %w", src.StoreID, src.Mode, err)
	}

	for _, hook := range d.postHooks {
		if err := hook(src, &result.Value); err != nil {
			return result, fmt.Errorf("hydrate: post-hook for store %q: %w", src.StoreID, err)
		}
	}
	return result, nil
}

// SlotRef names the store slot behind a tree path: the bare name at the top
// level, name(a,b) below it.
func SlotRef(path []string) string {
	if len(path) == 1 {
		return path[0]
	}
	return path[0] + "(" + strings.Join(path[1:], ",") + ")"
}

// leafPaths lists the paths of every non-map value in tree, keys sorted.
func leafPaths(tree map[string]any, prefix []string) [][]string {
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out [][]string
	for _, key := range keys {
		path := append(append([]string{}, prefix...), key)
		if child, ok := tree[key].(map[string]any); ok && len(child) > 0 {
			out = append(out, leafPaths(child, path)...)
			continue
		}
		out = append(out, path)
	}
	return out
}

func cloneTree(tree map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
