package configkit

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-configkit/tcl"
)

func TestResolveEndpoint(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(map[string]any{"base": "https://x", "ver": "v1", "ep": "$base/$ver"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := mustTree(t, s, ModeAuto)["ep"]; got != "$base/$ver" {
		t.Fatalf("expected references kept until resolve, got %#v", got)
	}
	report, err := s.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if report != (ResolveReport{Visited: 1, Rewritten: 1}) {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := mustTree(t, s, ModeAuto)["ep"]; got != "https://x/v1" {
		t.Fatalf("expected resolved endpoint, got %#v", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(map[string]any{"base": "https://x", "ep": "$base/api"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.Resolve(); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	first := mustTree(t, s, ModeAuto)
	report, err := s.Resolve()
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if report.Rewritten != 0 {
		t.Fatalf("expected no rewrites on second pass, got %+v", report)
	}
	if second := mustTree(t, s, ModeAuto); !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass changed tree:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestResolveChainDepth(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(map[string]any{"a": "$b", "b": "$c", "c": "x"}); err != nil {
		t.Fatalf("load: %v", err)
	}

	report, err := s.Resolve()
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if report != (ResolveReport{Visited: 2, Rewritten: 2}) {
		t.Fatalf("unexpected first report: %+v", report)
	}
	want := map[string]any{"a": "$c", "b": "x", "c": "x"}
	if got := mustTree(t, s, ModeAuto); !reflect.DeepEqual(want, got) {
		t.Fatalf("one hop per pass expected, got %#v", got)
	}

	if _, err := s.Resolve(); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	want["a"] = "x"
	if got := mustTree(t, s, ModeAuto); !reflect.DeepEqual(want, got) {
		t.Fatalf("chain not settled after second pass, got %#v", got)
	}

	report, err = s.Resolve()
	if err != nil {
		t.Fatalf("third pass: %v", err)
	}
	if report.Rewritten != 0 {
		t.Fatalf("expected fixpoint, got %+v", report)
	}
}

func TestResolveSkipsUndefinedReference(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(map[string]any{"u": "$undefined_name", "ok": "plain"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	report, err := s.Resolve()
	if err != nil {
		t.Fatalf("resolve must not fail on undefined references: %v", err)
	}
	if report != (ResolveReport{Visited: 1, Skipped: 1}) {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := mustTree(t, s, ModeAuto)["u"]; got != "$undefined_name" {
		t.Fatalf("expected slot unchanged, got %#v", got)
	}
}

func TestResolveEnvironmentWithoutLeaking(t *testing.T) {
	s := newTestStore(t)
	if err := s.Load(map[string]any{"paths": map[string]any{"data": "$env(HOME)/data"}}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]any{"paths": map[string]any{"data": testHome + "/data"}}
	if got := mustTree(t, s, ModeAuto); !reflect.DeepEqual(want, got) {
		t.Fatalf("expected resolved cell without env leak, got %#v", got)
	}
}

func TestResolveKeepsSignificantCharacters(t *testing.T) {
	s, err := NewStore(WithEvaluator(tcl.New(tcl.WithEnviron(nil))))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Load(map[string]any{"part": "a b;c", "joined": "x $part"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := s.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := mustTree(t, s, ModeAuto)["joined"]; got != "x a b;c" {
		t.Fatalf("expected substituted text preserved, got %#v", got)
	}
}
