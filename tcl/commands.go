package tcl

import (
	"sort"
	"strconv"
	"strings"
)

func builtinCommands() map[string]CommandFunc {
	return map[string]CommandFunc{
		"append":  cmdAppend,
		"array":   cmdArray,
		"concat":  cmdConcat,
		"dict":    cmdDict,
		"expr":    cmdExpr,
		"incr":    cmdIncr,
		"info":    cmdInfo,
		"lindex":  cmdLindex,
		"list":    cmdList,
		"llength": cmdLlength,
		"return":  cmdReturn,
		"set":     cmdSet,
		"subst":   cmdSubst,
		"unset":   cmdUnset,
	}
}

func cmdSet(in *Interp, args []string) (string, error) {
	switch len(args) {
	case 2:
		return in.GetVar(args[1])
	case 3:
		return in.SetVar(args[1], args[2])
	default:
		return "", wrongArgs("set varName ?newValue?")
	}
}

func cmdUnset(in *Interp, args []string) (string, error) {
	names := args[1:]
	nocomplain := false
	if len(names) > 0 && names[0] == "-nocomplain" {
		nocomplain = true
		names = names[1:]
	}
	if len(names) > 0 && names[0] == "--" {
		names = names[1:]
	}
	for _, name := range names {
		if err := in.UnsetVar(name); err != nil && !nocomplain {
			return "", err
		}
	}
	return "", nil
}

func cmdAppend(in *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", wrongArgs("append varName ?value ...?")
	}
	current := ""
	if in.VarExists(args[1]) {
		value, err := in.GetVar(args[1])
		if err != nil {
			return "", err
		}
		current = value
	}
	return in.SetVar(args[1], current+strings.Join(args[2:], ""))
}

func cmdIncr(in *Interp, args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", wrongArgs("incr varName ?increment?")
	}
	step := int64(1)
	if len(args) == 3 {
		parsed, err := strconv.ParseInt(args[2], 0, 64)
		if err != nil {
			return "", errorf("expected integer but got %q", args[2])
		}
		step = parsed
	}
	current := int64(0)
	if in.VarExists(args[1]) {
		value, err := in.GetVar(args[1])
		if err != nil {
			return "", err
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
		if err != nil {
			return "", errorf("expected integer but got %q", value)
		}
		current = parsed
	}
	return in.SetVar(args[1], strconv.FormatInt(current+step, 10))
}

func cmdArray(in *Interp, args []string) (string, error) {
	if len(args) < 3 {
		return "", wrongArgs("array subcommand arrayName ?arg ...?")
	}
	sub, name := args[1], args[2]
	switch sub {
	case "exists":
		if in.ArrayExists(name) {
			return "1", nil
		}
		return "0", nil
	case "names":
		return FormatList(in.ArrayNames(name)), nil
	case "size":
		return strconv.Itoa(len(in.ArrayNames(name))), nil
	case "get":
		v := in.lookup(name)
		if !v.isArray() {
			return "", nil
		}
		pairs := make([]string, 0, 2*len(v.cells.keys))
		for _, key := range v.cells.keys {
			pairs = append(pairs, key, v.cells.values[key])
		}
		return FormatList(pairs), nil
	case "set":
		if len(args) != 4 {
			return "", wrongArgs("array set arrayName list")
		}
		pairs, err := SplitList(args[3])
		if err != nil {
			return "", err
		}
		if len(pairs)%2 != 0 {
			return "", errorf("list must have an even number of elements")
		}
		v, err := in.ensureArray(name)
		if err != nil {
			return "", err
		}
		for i := 0; i < len(pairs); i += 2 {
			v.cells.set(pairs[i], pairs[i+1])
		}
		return "", nil
	case "unset":
		if len(args) == 4 {
			v := in.lookup(name)
			if v.isArray() {
				v.cells.remove(args[3])
			}
			return "", nil
		}
		if in.ArrayExists(name) {
			in.remove(name)
		}
		return "", nil
	default:
		return "", errorf("unknown or ambiguous subcommand %q: must be exists, get, names, set, size, or unset", sub)
	}
}

func cmdInfo(in *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", wrongArgs("info subcommand ?arg ...?")
	}
	switch args[1] {
	case "vars", "globals":
		return FormatList(in.VarNames()), nil
	case "exists":
		if len(args) != 3 {
			return "", wrongArgs("info exists varName")
		}
		if in.VarExists(args[2]) {
			return "1", nil
		}
		return "0", nil
	case "commands":
		names := make([]string, 0, len(in.commands))
		for name := range in.commands {
			names = append(names, name)
		}
		sort.Strings(names)
		return FormatList(names), nil
	default:
		return "", errorf("unknown or ambiguous subcommand %q: must be commands, exists, globals, or vars", args[1])
	}
}

func cmdList(_ *Interp, args []string) (string, error) {
	return FormatList(args[1:]), nil
}

func cmdConcat(_ *Interp, args []string) (string, error) {
	parts := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		trimmed := strings.TrimSpace(arg)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " "), nil
}

func cmdLlength(_ *Interp, args []string) (string, error) {
	if len(args) != 2 {
		return "", wrongArgs("llength list")
	}
	elems, err := SplitList(args[1])
	if err != nil {
		return "", err
	}
	return strconv.Itoa(len(elems)), nil
}

func cmdLindex(_ *Interp, args []string) (string, error) {
	if len(args) != 3 {
		return "", wrongArgs("lindex list index")
	}
	elems, err := SplitList(args[1])
	if err != nil {
		return "", err
	}
	index, err := parseIndex(args[2], len(elems))
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(elems) {
		return "", nil
	}
	return elems[index], nil
}

func parseIndex(text string, length int) (int, error) {
	if text == "end" {
		return length - 1, nil
	}
	if rest, ok := strings.CutPrefix(text, "end-"); ok {
		offset, err := strconv.Atoi(rest)
		if err != nil {
			return 0, errorf("bad index %q", text)
		}
		return length - 1 - offset, nil
	}
	index, err := strconv.Atoi(text)
	if err != nil {
		return 0, errorf("bad index %q", text)
	}
	return index, nil
}

func cmdDict(_ *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", wrongArgs("dict subcommand ?arg ...?")
	}
	switch args[1] {
	case "create":
		if len(args)%2 != 0 {
			return "", wrongArgs("dict create ?key value ...?")
		}
		d := newCells()
		for i := 2; i < len(args); i += 2 {
			d.set(args[i], args[i+1])
		}
		return formatDict(d), nil
	case "get":
		if len(args) < 3 {
			return "", wrongArgs("dict get dictionary ?key ...?")
		}
		current := args[2]
		for _, key := range args[3:] {
			d, err := parseDict(current)
			if err != nil {
				return "", err
			}
			value, ok := d.get(key)
			if !ok {
				return "", errorf("key %q not known in dictionary", key)
			}
			current = value
		}
		return current, nil
	case "keys":
		if len(args) != 3 {
			return "", wrongArgs("dict keys dictionary")
		}
		d, err := parseDict(args[2])
		if err != nil {
			return "", err
		}
		return FormatList(d.names()), nil
	case "size":
		if len(args) != 3 {
			return "", wrongArgs("dict size dictionary")
		}
		d, err := parseDict(args[2])
		if err != nil {
			return "", err
		}
		return strconv.Itoa(len(d.keys)), nil
	default:
		return "", errorf("unknown or ambiguous subcommand %q: must be create, get, keys, or size", args[1])
	}
}

func parseDict(value string) (*cells, error) {
	elems, err := SplitList(value)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, errorf("missing value to go with key")
	}
	d := newCells()
	for i := 0; i < len(elems); i += 2 {
		d.set(elems[i], elems[i+1])
	}
	return d, nil
}

func formatDict(d *cells) string {
	pairs := make([]string, 0, 2*len(d.keys))
	for _, key := range d.keys {
		pairs = append(pairs, key, d.values[key])
	}
	return FormatList(pairs)
}

func cmdSubst(in *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", wrongArgs("subst ?-nobackslashes? ?-nocommands? ?-novariables? string")
	}
	flags := substAll
	for _, opt := range args[1 : len(args)-1] {
		switch opt {
		case "-nobackslashes":
			flags &^= substBackslashes
		case "-nocommands":
			flags &^= substCommands
		case "-novariables":
			flags &^= substVariables
		default:
			return "", errorf("bad option %q: must be -nobackslashes, -nocommands, or -novariables", opt)
		}
	}
	p := &parser{src: args[len(args)-1]}
	return in.substUntil(p, func(byte) bool { return false }, flags)
}

func cmdReturn(_ *Interp, args []string) (string, error) {
	value := ""
	if len(args) > 1 {
		value = args[len(args)-1]
	}
	return "", &returnSignal{value: value}
}
