package tcl

import (
	"errors"
	"strings"
)

// CommandFunc implements a command. args[0] is the command name.
type CommandFunc func(in *Interp, args []string) (string, error)

// Interp is a minimal Tcl-style interpreter holding global scalars and
// arrays. It is not safe for concurrent use.
type Interp struct {
	vars     map[string]*variable
	order    []string
	commands map[string]CommandFunc
	engine   ExprEngine
	environ  []string
}

type variable struct {
	scalar string
	cells  *cells
}

func (v *variable) isArray() bool {
	return v != nil && v.cells != nil
}

// cells keeps array elements in insertion order.
type cells struct {
	keys   []string
	values map[string]string
}

func newCells() *cells {
	return &cells{values: map[string]string{}}
}

func (c *cells) set(key, value string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

func (c *cells) get(key string) (string, bool) {
	value, ok := c.values[key]
	return value, ok
}

func (c *cells) remove(key string) bool {
	if _, ok := c.values[key]; !ok {
		return false
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return true
}

func (c *cells) names() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Option configures an Interp.
type Option func(*Interp)

// WithExprEngine replaces the engine backing the expr command.
func WithExprEngine(engine ExprEngine) Option {
	return func(in *Interp) {
		if engine != nil {
			in.engine = engine
		}
	}
}

// WithEnviron seeds the env array from environ (KEY=VALUE entries) instead
// of the process environment.
func WithEnviron(environ []string) Option {
	return func(in *Interp) {
		in.environ = append([]string{}, environ...)
	}
}

// WithCommand registers or replaces a command.
func WithCommand(name string, fn CommandFunc) Option {
	return func(in *Interp) {
		if name != "" && fn != nil {
			in.commands[name] = fn
		}
	}
}

// New constructs an interpreter with the built-in commands and the pristine
// default variables.
func New(opts ...Option) *Interp {
	in := &Interp{
		vars:     map[string]*variable{},
		commands: builtinCommands(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	if in.engine == nil {
		in.engine = NewExprLangEngine()
	}
	in.seedDefaults()
	return in
}

// Eval runs script and returns the result of the last command.
func (in *Interp) Eval(script string) (string, error) {
	p := &parser{src: script}
	result, err := in.evalScript(p)
	if err != nil {
		var ret *returnSignal
		if errors.As(err, &ret) {
			return ret.value, nil
		}
		in.recordError(err)
		return "", err
	}
	return result, nil
}

// Substitute performs one pass of variable, command and backslash
// substitution over text. Substituted values are not rescanned.
func (in *Interp) Substitute(text string) (string, error) {
	return in.substitute(text, substAll)
}

func (in *Interp) substitute(text string, flags substFlags) (string, error) {
	p := &parser{src: text}
	out, err := in.substUntil(p, func(byte) bool { return false }, flags)
	if err != nil {
		var ret *returnSignal
		if errors.As(err, &ret) {
			return ret.value, nil
		}
		in.recordError(err)
		return "", err
	}
	return out, nil
}

// SplitList parses list into its elements.
func (in *Interp) SplitList(list string) ([]string, error) {
	return SplitList(list)
}

// VarNames returns the names of all existing variables in creation order.
func (in *Interp) VarNames() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	return out
}

// recordError mirrors the last failure into errorInfo when that default is
// still present.
func (in *Interp) recordError(err error) {
	if err == nil {
		return
	}
	if v := in.lookup("errorInfo"); v != nil && !v.isArray() {
		v.scalar = err.Error()
	}
}

// splitVarRef splits "name(index)" into its parts. ok is false for scalar
// references.
func splitVarRef(ref string) (name, index string, ok bool) {
	open := strings.IndexByte(ref, '(')
	if open <= 0 || !strings.HasSuffix(ref, ")") {
		return ref, "", false
	}
	return ref[:open], ref[open+1 : len(ref)-1], true
}

func (in *Interp) lookup(name string) *variable {
	return in.vars[name]
}

func (in *Interp) create(name string) *variable {
	v := &variable{}
	in.vars[name] = v
	in.order = append(in.order, name)
	return v
}

func (in *Interp) remove(name string) bool {
	if _, ok := in.vars[name]; !ok {
		return false
	}
	delete(in.vars, name)
	for i, n := range in.order {
		if n == name {
			in.order = append(in.order[:i], in.order[i+1:]...)
			break
		}
	}
	return true
}

// GetVar reads the scalar or array element named by ref.
func (in *Interp) GetVar(ref string) (string, error) {
	name, index, isElem := splitVarRef(ref)
	if isElem {
		return in.getElem(name, index)
	}
	v := in.lookup(name)
	if v == nil {
		return "", errorf("can't read %q: no such variable", ref)
	}
	if v.isArray() {
		return "", errorf("can't read %q: variable is array", ref)
	}
	return v.scalar, nil
}

func (in *Interp) getElem(name, index string) (string, error) {
	ref := name + "(" + index + ")"
	v := in.lookup(name)
	if v == nil {
		return "", errorf("can't read %q: no such variable", ref)
	}
	if !v.isArray() {
		return "", errorf("can't read %q: variable isn't array", ref)
	}
	value, ok := v.cells.get(index)
	if !ok {
		return "", errorf("can't read %q: no such element in array", ref)
	}
	return value, nil
}

// SetVar writes value to the scalar or array element named by ref.
func (in *Interp) SetVar(ref, value string) (string, error) {
	name, index, isElem := splitVarRef(ref)
	if isElem {
		v := in.lookup(name)
		if v == nil {
			v = in.create(name)
			v.cells = newCells()
		}
		if !v.isArray() {
			return "", errorf("can't set %q: variable isn't array", ref)
		}
		v.cells.set(index, value)
		return value, nil
	}
	v := in.lookup(name)
	if v == nil {
		v = in.create(name)
	}
	if v.isArray() {
		return "", errorf("can't set %q: variable is array", ref)
	}
	v.scalar = value
	return value, nil
}

func (in *Interp) setScalar(name, value string) {
	v := in.lookup(name)
	if v == nil {
		v = in.create(name)
	}
	if v.isArray() {
		return
	}
	v.scalar = value
}

// UnsetVar removes the scalar, array or array element named by ref.
func (in *Interp) UnsetVar(ref string) error {
	name, index, isElem := splitVarRef(ref)
	if isElem {
		v := in.lookup(name)
		if v == nil || !v.isArray() || !v.cells.remove(index) {
			return errorf("can't unset %q: no such element in array", ref)
		}
		return nil
	}
	if !in.remove(name) {
		return errorf("can't unset %q: no such variable", ref)
	}
	return nil
}

// VarExists reports whether ref names an existing scalar or element.
func (in *Interp) VarExists(ref string) bool {
	_, err := in.GetVar(ref)
	if err == nil {
		return true
	}
	name, _, isElem := splitVarRef(ref)
	if isElem {
		return false
	}
	v := in.lookup(name)
	return v.isArray()
}

// ArrayExists reports whether name is an array variable.
func (in *Interp) ArrayExists(name string) bool {
	return in.lookup(name).isArray()
}

// ArrayNames returns the element names of array name in insertion order.
func (in *Interp) ArrayNames(name string) []string {
	v := in.lookup(name)
	if !v.isArray() {
		return nil
	}
	return v.cells.names()
}

func (in *Interp) ensureArray(name string) (*variable, error) {
	v := in.lookup(name)
	if v == nil {
		v = in.create(name)
		v.cells = newCells()
		return v, nil
	}
	if !v.isArray() {
		return nil, errorf("can't array set %q: variable isn't array", name)
	}
	return v, nil
}
