package tcl

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprLangOption configures the expr-lang engine.
type ExprLangOption func(*exprLangEngine)

// ExprLangWithProgramCache wires a ProgramCache into the engine.
func ExprLangWithProgramCache(cache ProgramCache) ExprLangOption {
	return func(e *exprLangEngine) {
		e.cache = cache
	}
}

// ExprLangWithFunctionRegistry replaces the default math function registry.
func ExprLangWithFunctionRegistry(registry *FunctionRegistry) ExprLangOption {
	return func(e *exprLangEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprLangEngine evaluates expr bodies using github.com/expr-lang/expr.
type exprLangEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprLangEngine constructs the default ExprEngine.
func NewExprLangEngine(opts ...ExprLangOption) ExprEngine {
	e := &exprLangEngine{registry: MathFunctions()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprLangEngine) Name() string {
	return "expr"
}

func (e *exprLangEngine) Evaluate(expression string, env map[string]any) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return exprlang.Run(program, e.environment(env))
}

func (e *exprLangEngine) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registry.Names() {
		options = append(options, exprlang.Function(name, e.registryFunction(name)))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *exprLangEngine) environment(bound map[string]any) map[string]any {
	env := make(map[string]any, len(bound))
	for key, value := range bound {
		env[key] = value
	}
	return env
}

func (e *exprLangEngine) registryFunction(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
