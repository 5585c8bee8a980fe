package tcl

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ExprEngine evaluates the body of an expr command. Variable references and
// command substitutions have already been replaced by identifiers bound in
// env.
type ExprEngine interface {
	Name() string
	Evaluate(expression string, env map[string]any) (any, error)
}

// EngineError captures engine metadata alongside the originating error.
type EngineError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EngineError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tcl: %s engine %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EngineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		if engineErr.Engine == "" {
			engineErr.Engine = engine
		}
		if engineErr.Expr == "" {
			engineErr.Expr = expr
		}
		return engineErr
	}
	return &EngineError{Engine: engine, Expr: expr, Err: err}
}

func cmdExpr(in *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", wrongArgs("expr arg ?arg ...?")
	}
	source := strings.Join(args[1:], " ")
	expression, env, err := in.bindExpression(source)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(expression) == "" {
		return "", errorf("empty expression")
	}
	value, err := in.engine.Evaluate(expression, env)
	if err != nil {
		return "", wrapEngineError(in.engine.Name(), source, err)
	}
	return formatExprResult(value), nil
}

// bindExpression replaces $refs, [commands] and {braced} strings with
// identifiers so the engine never sees Tcl syntax.
func (in *Interp) bindExpression(source string) (string, map[string]any, error) {
	p := &parser{src: source}
	env := map[string]any{}
	var b strings.Builder
	bind := func(value any) {
		name := fmt.Sprintf("_v%d", len(env))
		env[name] = value
		b.WriteString(name)
	}
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '$':
			start := p.pos
			value, err := in.parseVariable(p)
			if err != nil {
				return "", nil, err
			}
			if p.pos == start+1 && value == "$" {
				b.WriteByte('$')
				continue
			}
			bind(operandValue(value))
		case '[':
			p.pos++
			p.nested = true
			value, err := in.evalScript(p)
			p.nested = false
			if err != nil {
				return "", nil, err
			}
			bind(operandValue(value))
		case '{':
			value, err := p.parseBraced()
			if err != nil {
				return "", nil, err
			}
			bind(value)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return b.String(), env, nil
}

// operandValue types a substituted operand the way Tcl's expr would see it.
func operandValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	if i, err := strconv.ParseInt(trimmed, 0, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return value
}

func formatExprResult(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		elems := make([]string, rv.Len())
		for i := range elems {
			elems[i] = formatExprResult(rv.Index(i).Interface())
		}
		return FormatList(elems)
	}
	return fmt.Sprint(value)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
