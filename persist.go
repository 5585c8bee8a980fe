package configkit

import (
	"strings"

	"github.com/goliatone/go-configkit/pkg/activity"
	"github.com/goliatone/go-configkit/tcl"
)

const (
	persistHeader = "# Generated by configkit"
	typesHeader   = "# Type information for configkit"
)

// PersistedForm renders the user slots as set commands followed by the type
// information block. Sourcing the lines into a fresh store reproduces the
// same tree.
func (s *Store) PersistedForm() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	slots, typed, err := s.slots("persist")
	if err != nil {
		return nil, err
	}
	lines := []string{persistHeader, ""}
	for _, slot := range slots {
		lines = append(lines, "set "+word(slot.Ref)+" "+word(slot.Literal))
	}
	if !typed {
		return lines, nil
	}
	lines = append(lines, "", typesHeader, "array set "+typesArray+" {}")
	for _, slot := range slots {
		if slot.Kind == KindUnknown {
			continue
		}
		lines = append(lines, "set "+word(kindRef(slot.Ref))+" "+string(slot.Kind))
	}
	return lines, nil
}

// Source evaluates script in the store. Default slots the script assigns are
// evicted first so the sourced values surface in Tree.
func (s *Store) Source(script string) error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, name := range assignedNames(script) {
		if err := s.evict(name); err != nil {
			return err
		}
	}
	if _, err := s.observe("source", "").Eval(script); err != nil {
		return err
	}
	s.emit(activity.StoreSourced(s.id, len(script)))
	return nil
}

// assignedNames returns the variable names targeted by top-level set and
// array set lines of script. Lines that do not parse as lists are skipped.
func assignedNames(script string) []string {
	var names []string
	seen := map[string]bool{}
	for _, line := range strings.Split(script, "\n") {
		words, err := tcl.SplitList(strings.TrimSpace(line))
		if err != nil || len(words) < 2 {
			continue
		}
		var target string
		switch {
		case words[0] == "set" && len(words) >= 3:
			target = words[1]
		case words[0] == "array" && len(words) >= 3 && words[1] == "set":
			target = words[2]
		default:
			continue
		}
		if open := strings.IndexByte(target, '('); open > 0 {
			target = target[:open]
		}
		if target == "" || target == typesArray || seen[target] {
			continue
		}
		seen[target] = true
		names = append(names, target)
	}
	return names
}
