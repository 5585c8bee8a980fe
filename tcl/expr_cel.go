package tcl

import (
	"fmt"
	"reflect"
	"sort"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELOption configures the CEL engine.
type CELOption func(*celEngine)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELOption {
	return func(e *celEngine) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry replaces the default math function registry. CEL
// reaches registered functions through call(name, [args]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELOption {
	return func(e *celEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

var reflectAnySlice = reflect.TypeOf([]any{})

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEngine constructs an ExprEngine backed by cel-go.
func NewCELEngine(opts ...CELOption) ExprEngine {
	e := &celEngine{registry: MathFunctions()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEngine) Name() string {
	return "cel"
}

func (e *celEngine) Evaluate(expression string, env map[string]any) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression, env)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(env))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEngine) loadOrCompile(expression string, bound map[string]any) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(bound)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{env: env, program: prg}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

// buildEnv declares every bound operand as a dynamic variable. Operand names
// are derived from the expression text, so a cached program always matches
// the operands bound for the same expression.
func (e *celEngine) buildEnv(bound map[string]any) (*celgo.Env, error) {
	names := make([]string, 0, len(bound))
	for name := range bound {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]celgo.EnvOption, 0, len(names)+1)
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(e.callBinding()),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEngine) activation(bound map[string]any) map[string]any {
	activation := make(map[string]any, len(bound))
	for key, value := range bound {
		activation[key] = value
	}
	return activation
}

func (e *celEngine) callBinding() func(ref.Val, ref.Val) ref.Val {
	return func(nameVal, argsVal ref.Val) ref.Val {
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("tcl: call name must be string")
		}
		native, err := argsVal.ConvertToNative(reflectAnySlice)
		if err != nil {
			return types.NewErr("tcl: call arguments: %v", err)
		}
		result, err := e.registry.Call(name, native.([]any)...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
