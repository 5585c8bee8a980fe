//go:build !js_eval

package tcl

import "testing"

func TestJSEngineUnavailable(t *testing.T) {
	if JSEngineAvailable() {
		t.Fatalf("expected js engine to be unavailable without js_eval")
	}
	if NewJSEngine() != nil {
		t.Fatalf("expected nil engine without js_eval")
	}
	// A nil engine leaves the default in place.
	in := New(WithEnviron(nil), WithExprEngine(NewJSEngine()))
	if got, err := in.Eval("expr {1 + 1}"); err != nil || got != "2" {
		t.Fatalf("expected default engine, got %q (%v)", got, err)
	}
}
