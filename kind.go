package configkit

import "reflect"

// Kind is the declared type of a slot, recorded in the type side-channel at
// encode time and consulted at decode time.
type Kind string

const (
	KindUnknown Kind = ""
	KindList    Kind = "list"
	KindBool    Kind = "bool"
	KindNone    Kind = "none"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
)

// typesArray is the store array holding declared kinds keyed by slot
// reference.
const typesArray = "__configkit_types__"

// KindOf derives the declared kind from a document value's native type.
func KindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNone
	case bool:
		return KindBool
	case string:
		return KindString
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindNumber
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return KindList
	}
	return KindString
}

// ParseKind maps a stored kind name to a Kind. Unrecognised names yield
// KindUnknown.
func ParseKind(name string) Kind {
	switch Kind(name) {
	case KindList, KindBool, KindNone, KindNumber, KindString:
		return Kind(name)
	}
	return KindUnknown
}
