package configkit

import (
	"fmt"
	"strings"
)

// Mode selects how slots without a declared kind are decoded.
type Mode string

const (
	// ModeAuto applies the untyped decision table.
	ModeAuto Mode = "auto"
	// ModeStr returns the raw literal.
	ModeStr Mode = "str"
	// ModeList splits any literal containing unbraced whitespace.
	ModeList Mode = "list"
)

// ParseMode converts a mode name. An empty name selects ModeAuto.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeStr:
		return ModeStr, nil
	case ModeList:
		return ModeList, nil
	}
	return "", fmt.Errorf("configkit: unknown mode %q: must be auto, str, or list", name)
}

// Tree rebuilds a document from the store's user slots. Arrays become maps,
// comma-separated cell indices become nested maps and declared kinds take
// precedence over mode. Default slots and the type side-channel are never
// included.
func (s *Store) Tree(mode Mode) (map[string]any, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModeAuto
	}
	kinds, err := s.kinds("decode")
	if err != nil {
		return nil, err
	}
	names, err := s.userNames("decode")
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(names))
	for _, name := range names {
		array, err := s.isArray("decode", name)
		if err != nil {
			return nil, err
		}
		if !array {
			value, err := s.read("decode", name)
			if err != nil {
				return nil, err
			}
			out[name] = s.decodeSlot(name, value, kinds[name], mode)
			continue
		}

		cells, err := s.cellNames("decode", name)
		if err != nil {
			return nil, err
		}
		if len(cells) == 0 {
			continue
		}
		node := map[string]any{}
		for _, cell := range cells {
			ref := name + "(" + cell + ")"
			value, err := s.read("decode", ref)
			if err != nil {
				return nil, err
			}
			insertPath(node, strings.Split(cell, indexSeparator), s.decodeSlot(ref, value, kinds[ref], mode))
		}
		out[name] = node
	}
	return out, nil
}

// insertPath stores value under path, creating intermediate maps. A
// non-map value in the way is replaced.
func insertPath(node map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := node[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[key] = next
		}
		node = next
	}
	node[path[len(path)-1]] = value
}

// kinds reads the whole type side-channel keyed by slot reference.
func (s *Store) kinds(op string) (map[string]Kind, error) {
	if !s.Tagged() {
		return nil, nil
	}
	array, err := s.isArray(op, typesArray)
	if err != nil || !array {
		return nil, err
	}
	ev := s.observe(op, typesArray)
	out, err := ev.Eval("array get " + typesArray)
	if err != nil {
		return nil, err
	}
	pairs, err := ev.SplitList(out)
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]Kind, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		kinds[pairs[i]] = ParseKind(pairs[i+1])
	}
	return kinds, nil
}

// dropKinds removes the side-channel entries for name and its cells.
func (s *Store) dropKinds(name string) error {
	if !s.Tagged() {
		return nil
	}
	kinds, err := s.kinds("load")
	if err != nil {
		return err
	}
	for ref := range kinds {
		if ref != name && !strings.HasPrefix(ref, name+"(") {
			continue
		}
		if err := s.unset("load", kindRef(ref)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) decodeSlot(ref, value string, kind Kind, mode Mode) any {
	ev := s.observe("decode", ref)
	switch kind {
	case KindList:
		elems, err := ev.SplitList(value)
		if err != nil {
			return value
		}
		return decodeElements(ev, elems)
	case KindBool:
		return isTruthy(value)
	case KindNone:
		return nil
	case KindNumber:
		if n, ok := parseNumber(strings.TrimSpace(value)); ok {
			return n
		}
		return value
	case KindString:
		return value
	}

	switch mode {
	case ModeStr:
		return value
	case ModeList:
		trimmed := strings.TrimSpace(value)
		if isBracedGroup(trimmed) {
			return value
		}
		if !hasSeparator(trimmed) {
			return DecodeValue(ev, value)
		}
		elems, err := ev.SplitList(value)
		if err != nil {
			return value
		}
		return decodeElements(ev, elems)
	}
	return decodeUntyped(ev, ref, value)
}

func decodeUntyped(ev Evaluator, name, value string) any {
	trimmed := strings.TrimSpace(value)
	switch classifyUntyped(value, name) {
	case decideListLiteral, decideScalar:
		return DecodeValue(ev, value)
	case decideUnbrace:
		return trimmed[1 : len(trimmed)-1]
	case decideNumericList:
		return numericList(strings.Fields(trimmed))
	case decideHintedList:
		elems, err := ev.SplitList(trimmed)
		if err != nil {
			elems = strings.Fields(trimmed)
		}
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = elem
		}
		return out
	}
	return value
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
