package tcl

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Function is a custom function callable from expr.
type Function func(args ...any) (any, error)

type registeredFunction struct {
	fn    Function
	arity int
}

// FunctionRegistry stores expr functions keyed by lower-cased name. An arity
// of -1 accepts any number of arguments.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registeredFunction
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]registeredFunction{}}
}

// MathFunctions returns a registry preloaded with the Tcl math functions that
// the expression engines do not provide natively.
func MathFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.RegisterArity("double", 1, func(args ...any) (any, error) {
		return toFloat(args[0])
	})
	_ = r.RegisterArity("entier", 1, func(args ...any) (any, error) {
		f, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return int(math.Trunc(f)), nil
	})
	_ = r.RegisterArity("hypot", 2, func(args ...any) (any, error) {
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return math.Hypot(x, y), nil
	})
	_ = r.RegisterArity("fmod", 2, func(args ...any) (any, error) {
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return math.Mod(x, y), nil
	})
	_ = r.RegisterArity("isqrt", 1, func(args ...any) (any, error) {
		f, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, fmt.Errorf("square root of negative argument")
		}
		return int(math.Sqrt(f)), nil
	})
	return r
}

// Register stores fn under name accepting any number of arguments.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	return r.RegisterArity(name, -1, fn)
}

// RegisterArity stores fn under name, rejecting calls with a different
// argument count when arity is not negative.
func (r *FunctionRegistry) RegisterArity(name string, arity int, fn Function) error {
	if fn == nil {
		return fmt.Errorf("tcl: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("tcl: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]registeredFunction{}
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("tcl: function %q already registered", name)
	}
	r.functions[key] = registeredFunction{fn: fn, arity: arity}
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]registeredFunction, len(r.functions))}
	for name, entry := range r.functions {
		clone.functions[name] = entry
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("tcl: function registry is nil")
	}
	r.mu.RLock()
	entry, ok := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tcl: unknown math function %q", name)
	}
	if entry.arity >= 0 && len(args) != entry.arity {
		return nil, fmt.Errorf("tcl: %s expects %d argument(s), got %d", name, entry.arity, len(args))
	}
	return entry.fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		if parsed, ok := operandValue(v).(float64); ok {
			return parsed, nil
		}
		if parsed, ok := operandValue(v).(int); ok {
			return float64(parsed), nil
		}
	}
	return 0, fmt.Errorf("expected floating-point number but got %v", value)
}
