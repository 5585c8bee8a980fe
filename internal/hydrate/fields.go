package hydrate

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strings"
)

var (
	jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Unmapped returns the slot references in tree that no field of T can hold,
// in sorted path order.
func Unmapped[T any](tree map[string]any) []string {
	target := reflect.TypeOf((*T)(nil)).Elem()
	var out []string
	for _, path := range leafPaths(tree, nil) {
		if !accepts(target, path) {
			out = append(out, SlotRef(path))
		}
	}
	return out
}

// accepts reports whether a value of type t can absorb a value found at path
// below it, following the field matching rules of encoding/json.
func accepts(t reflect.Type, path []string) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if len(path) == 0 {
		return true
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshaler) {
		return true
	}
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Map:
		return isTextKey(t.Key()) && accepts(t.Elem(), path[1:])
	case reflect.Struct:
		field, ok := lookupField(t, path[0])
		if !ok {
			return false
		}
		return accepts(field.Type, path[1:])
	}
	return false
}

// lookupField finds the field json would fill for key: an exact name match
// wins over a case-insensitive one, and embedded structs are searched after
// the direct fields.
func lookupField(t reflect.Type, key string) (reflect.StructField, bool) {
	var (
		folded   reflect.StructField
		hasFold  bool
		embedded []reflect.Type
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				embedded = append(embedded, ft)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if name == key {
			return f, true
		}
		if !hasFold && strings.EqualFold(name, key) {
			folded, hasFold = f, true
		}
	}
	if hasFold {
		return folded, true
	}
	for _, et := range embedded {
		if f, ok := lookupField(et, key); ok {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// isTextKey reports whether json can decode object keys into a map with key
// type k.
func isTextKey(k reflect.Type) bool {
	switch k.Kind() {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return reflect.PointerTo(k).Implements(textUnmarshaler)
}
