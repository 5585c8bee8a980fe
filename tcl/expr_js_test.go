//go:build js_eval

package tcl

import "testing"

func TestJSEngine(t *testing.T) {
	cache := NewMemoryCache()
	in := New(WithEnviron(nil), WithExprEngine(NewJSEngine(JSWithProgramCache(cache))))
	got, err := in.Eval("set a 2; expr {$a + 1}")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "3" {
		t.Fatalf("expected 3, got %q", got)
	}
	if !JSEngineAvailable() {
		t.Fatalf("expected js engine to report availability")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected cached program, got %d", cache.Len())
	}
}
