package configkit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-configkit/tcl"
)

func TestEncodeValue(t *testing.T) {
	text := "v"
	var nilText *string
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: `""`},
		{name: "true", value: true, want: "1"},
		{name: "false", value: false, want: "0"},
		{name: "plain string", value: "demo", want: "demo"},
		{name: "string with spaces", value: "a b", want: "{a b}"},
		{name: "string with reference", value: "$base/api", want: "{$base/api}"},
		{name: "empty string", value: "", want: "{}"},
		{name: "int", value: 8080, want: "8080"},
		{name: "int64", value: int64(-2), want: "-2"},
		{name: "uint8", value: uint8(3), want: "3"},
		{name: "whole float", value: 2.0, want: "2.0"},
		{name: "fraction", value: 0.5, want: "0.5"},
		{name: "float32", value: float32(1.5), want: "1.5"},
		{name: "empty list", value: []any{}, want: "[list]"},
		{name: "list", value: []any{1, "a b", nil}, want: `[list 1 {a b} ""]`},
		{name: "typed slice", value: []string{"x", "y"}, want: "[list x y]"},
		{name: "nested list", value: []any{[]any{1, 2}}, want: "[list [list 1 2]]"},
		{name: "map", value: map[string]any{"b": 1, "a": "x y"}, want: "[dict create a {x y} b 1]"},
		{name: "typed map", value: map[string]int{"k": 1}, want: "[dict create k 1]"},
		{name: "pointer", value: &text, want: "v"},
		{name: "nil pointer", value: nilText, want: `""`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeValue(tc.value)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEncodeValueUnsupported(t *testing.T) {
	for _, value := range []any{struct{}{}, make(chan int), func() {}} {
		if _, err := EncodeValue(value); !errors.Is(err, ErrUnsupportedValue) {
			t.Fatalf("expected ErrUnsupportedValue for %T, got %v", value, err)
		}
	}
	if _, err := EncodeValue([]any{struct{}{}}); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected nested unsupported value to fail, got %v", err)
	}
}

func TestDecodeValue(t *testing.T) {
	ev := tcl.New(tcl.WithEnviron(nil))
	cases := []struct {
		literal string
		want    any
	}{
		{literal: "", want: nil},
		{literal: `""`, want: nil},
		{literal: "42", want: 42},
		{literal: "-3", want: -3},
		{literal: "1.5", want: 1.5},
		{literal: "0", want: 0},
		{literal: "true", want: true},
		{literal: "FALSE", want: false},
		{literal: "NaN", want: "NaN"},
		{literal: "Inf", want: "Inf"},
		{literal: "1e5", want: 100000.0},
		{literal: "-2.5E-3", want: -0.0025},
		{literal: "1e999", want: "1e999"},
		{literal: "e5", want: "e5"},
		{literal: "1e5 2e3", want: []any{100000.0, 2000.0}},
		{literal: "[list 1 {a b}]", want: []any{1, "a b"}},
		{literal: "[list]", want: []any{}},
		{literal: "[list [list 1 2] x]", want: []any{[]any{1, 2}, "x"}},
		{literal: "[dict create a 1 b {x y}]", want: map[string]any{"a": 1, "b": "x y"}},
		{literal: "[dict create a {[dict create b 2]}]", want: map[string]any{"a": map[string]any{"b": 2}}},
		{literal: "[dict create ]", want: map[string]any{}},
		{literal: "3 5 7", want: []any{3, 5, 7}},
		{literal: "red green blue", want: "red green blue"},
		{literal: "[list 1", want: "[list 1"},
		{literal: "[dict create a]", want: "[dict create a]"},
		{literal: "[list [bogus]]", want: "[list [bogus]]"},
	}
	for _, tc := range cases {
		got := DecodeValue(ev, tc.literal)
		if !reflect.DeepEqual(tc.want, got) {
			t.Fatalf("DecodeValue(%q): want %#v, got %#v", tc.literal, tc.want, got)
		}
	}
}

func TestDecodeValueWithoutEvaluator(t *testing.T) {
	if got := DecodeValue(nil, "[list 1 2]"); got != "[list 1 2]" {
		t.Fatalf("expected literal without evaluator, got %#v", got)
	}
	if got := DecodeValue(nil, "7"); got != 7 {
		t.Fatalf("expected number without evaluator, got %#v", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := tcl.New(tcl.WithEnviron(nil))
	values := []any{
		nil,
		12,
		0.25,
		"word",
		[]any{1, 2, 3},
		[]any{"a b", "c"},
		map[string]any{"k": "v", "n": 3},
	}
	for _, value := range values {
		literal, err := EncodeValue(value)
		if err != nil {
			t.Fatalf("encode %#v: %v", value, err)
		}
		if got := DecodeValue(ev, literal); !reflect.DeepEqual(value, got) {
			t.Fatalf("round trip of %#v via %q: got %#v", value, literal, got)
		}
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		value any
		want  Kind
	}{
		{value: nil, want: KindNone},
		{value: true, want: KindBool},
		{value: "x", want: KindString},
		{value: 1, want: KindNumber},
		{value: 1.5, want: KindNumber},
		{value: uint16(2), want: KindNumber},
		{value: []any{1}, want: KindList},
		{value: []string{"a"}, want: KindList},
		{value: map[string]any{}, want: KindString},
	}
	for _, tc := range cases {
		if got := KindOf(tc.value); got != tc.want {
			t.Fatalf("KindOf(%#v): want %q, got %q", tc.value, tc.want, got)
		}
	}
	if ParseKind("number") != KindNumber || ParseKind("blob") != KindUnknown {
		t.Fatalf("unexpected ParseKind results")
	}
}
