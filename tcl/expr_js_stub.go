//go:build !js_eval

package tcl

// NewJSEngine is unavailable without the js_eval build tag and returns nil;
// WithExprEngine ignores a nil engine.
func NewJSEngine(opts ...JSOption) ExprEngine {
	_ = applyJSOptions(opts)
	return nil
}

// JSEngineAvailable reports whether the binary was built with js_eval.
func JSEngineAvailable() bool {
	return false
}
