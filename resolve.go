package configkit

import (
	"strings"

	"github.com/goliatone/go-configkit/pkg/activity"
)

// ResolveReport summarises one resolution pass. Visited counts slots holding
// a $ reference, Rewritten those whose value changed and Skipped those the
// evaluator could not substitute.
type ResolveReport struct {
	Visited   int
	Rewritten int
	Skipped   int
}

// Resolve substitutes $ references in every user slot once, in store order.
// A slot whose substitution fails keeps its value. Substituted text is not
// rescanned, so a reference to a slot that still holds a reference resolves
// one hop per pass.
func (s *Store) Resolve() (ResolveReport, error) {
	var report ResolveReport
	if err := s.ready(); err != nil {
		return report, err
	}
	refs, err := s.userRefs("resolve")
	if err != nil {
		return report, err
	}
	for _, ref := range refs {
		value, err := s.read("resolve", ref)
		if err != nil {
			report.Skipped++
			continue
		}
		if !strings.Contains(value, "$") {
			continue
		}
		report.Visited++
		resolved, err := s.observe("resolve", ref).Substitute(value)
		if err != nil {
			report.Skipped++
			continue
		}
		if resolved == value {
			continue
		}
		if err := s.write("resolve", ref, word(resolved)); err != nil {
			report.Skipped++
			continue
		}
		report.Rewritten++
		s.emit(activity.SlotResolved(s.id, ref, value, resolved))
	}
	return report, nil
}

// userRefs lists every user scalar and composite cell reference.
func (s *Store) userRefs(op string) ([]string, error) {
	names, err := s.userNames(op)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, name := range names {
		array, err := s.isArray(op, name)
		if err != nil {
			return nil, err
		}
		if !array {
			refs = append(refs, name)
			continue
		}
		cells, err := s.cellNames(op, name)
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			refs = append(refs, name+"("+cell+")")
		}
	}
	return refs, nil
}
