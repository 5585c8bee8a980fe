//go:build js_eval

package tcl

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEngine constructs an ExprEngine backed by goja.
func NewJSEngine(opts ...JSOption) ExprEngine {
	cfg := applyJSOptions(opts)
	return &jsEngine{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

// JSEngineAvailable reports whether the binary was built with js_eval.
func JSEngineAvailable() bool {
	return true
}

func (e *jsEngine) Name() string {
	return "js"
}

func (e *jsEngine) Evaluate(expression string, env map[string]any) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	vm := goja.New()
	e.inject(vm, env)
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func (e *jsEngine) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapJSExpression(expression), false)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *jsEngine) inject(vm *goja.Runtime, env map[string]any) {
	for key, value := range env {
		_ = vm.Set(key, value)
	}
	if e.registry == nil {
		return
	}
	for _, name := range e.registry.Names() {
		fn := name
		_ = vm.Set(fn, func(arguments ...any) (any, error) {
			return e.registry.Call(fn, arguments...)
		})
	}
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}
