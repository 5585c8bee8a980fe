package configkit

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-configkit/tcl"
)

// EncodeValue renders a document value as a store literal usable as the
// value word of a set command.
func EncodeValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return `""`, nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case string:
		return tcl.QuoteElement(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), nil
	case float32:
		return encodeFloat(float64(v)), nil
	case float64:
		return encodeFloat(v), nil
	case []any:
		return encodeList(len(v), func(i int) any { return v[i] })
	case map[string]any:
		return encodeDict(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return encodeList(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		m, ok := stringKeyed(rv)
		if !ok {
			break
		}
		return encodeDict(m)
	case reflect.Pointer:
		if rv.IsNil() {
			return `""`, nil
		}
		return EncodeValue(rv.Elem().Interface())
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}

func encodeFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func encodeList(n int, at func(int) any) (string, error) {
	var b strings.Builder
	b.WriteString("[list")
	for i := 0; i < n; i++ {
		elem, err := EncodeValue(at(i))
		if err != nil {
			return "", err
		}
		b.WriteByte(' ')
		b.WriteString(elem)
	}
	b.WriteByte(']')
	return b.String(), nil
}

func encodeDict(m map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString("[dict create")
	for _, key := range sortedKeys(m) {
		value, err := EncodeValue(m[key])
		if err != nil {
			return "", err
		}
		b.WriteByte(' ')
		b.WriteString(tcl.QuoteElement(key))
		b.WriteByte(' ')
		b.WriteString(value)
	}
	b.WriteByte(']')
	return b.String(), nil
}

// stringKeyed converts any map into a map[string]any by formatting its keys.
func stringKeyed(rv reflect.Value) (map[string]any, bool) {
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DecodeValue reconstructs a document value from a store literal without a
// declared kind. ev resolves list and dict literals; evaluator failures yield
// the literal unchanged.
func DecodeValue(ev Evaluator, literal string) any {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" || trimmed == `""` {
		return nil
	}
	if n, ok := parseNumber(trimmed); ok {
		return n
	}
	if b, ok := parseBool(trimmed); ok {
		return b
	}
	if ev == nil {
		return literal
	}
	switch {
	case isListLiteral(trimmed):
		elems, err := evalList(ev, trimmed)
		if err != nil {
			return literal
		}
		return decodeElements(ev, elems)
	case isDictLiteral(trimmed):
		pairs, err := evalList(ev, trimmed)
		if err != nil || len(pairs)%2 != 0 {
			return literal
		}
		out := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			out[pairs[i]] = DecodeValue(ev, pairs[i+1])
		}
		return out
	case DetectList(trimmed, ""):
		elems, err := ev.SplitList(trimmed)
		if err != nil {
			return literal
		}
		return decodeElements(ev, elems)
	}
	return literal
}

func evalList(ev Evaluator, literal string) ([]string, error) {
	out, err := ev.Eval("return " + literal)
	if err != nil {
		return nil, err
	}
	return ev.SplitList(out)
}

func decodeElements(ev Evaluator, elems []string) []any {
	out := make([]any, len(elems))
	for i, elem := range elems {
		out[i] = DecodeValue(ev, elem)
	}
	return out
}

// parseNumber reads a float when the text carries a decimal point or an
// exponent and an integer otherwise.
func parseNumber(s string) (any, bool) {
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return int(i), true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

func isListLiteral(s string) bool {
	return (s == "[list]" || strings.HasPrefix(s, "[list ")) && strings.HasSuffix(s, "]")
}

func isDictLiteral(s string) bool {
	return (s == "[dict create]" || strings.HasPrefix(s, "[dict create ")) && strings.HasSuffix(s, "]")
}
