package hydrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type serverSettings struct {
	Server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"server"`
	Hosts  []string          `json:"hosts,omitempty"`
	Debug  bool              `json:"debug,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_server.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[serverSettings](buildOptions(tc)...)

			result, err := decoder.Decode(Source{StoreID: tc.Store, Mode: "auto"}, tc.Input)

			if !reflect.DeepEqual(tc.Unmapped, result.Unmapped) {
				t.Fatalf("unmapped slots: want %v, got %v", tc.Unmapped, result.Unmapped)
			}
			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.Expect, result.Value) {
				t.Fatalf("decoded struct mismatch:\nwant: %#v\n got: %#v", tc.Expect, result.Value)
			}
		})
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[serverSettings] {
	var options []DecoderOption[serverSettings]
	for _, name := range tc.Options {
		switch name {
		case "strict":
			options = append(options, WithStrict[serverSettings]())
		case "rename_listen":
			options = append(options, WithPreHook[serverSettings](func(_ Source, tree map[string]any) (map[string]any, error) {
				if listen, ok := tree["listen"]; ok {
					tree["server"] = listen
					delete(tree, "listen")
				}
				return tree, nil
			}))
		}
	}
	return options
}

func TestStrictErrorListsSlots(t *testing.T) {
	_, err := NewDecoder(WithStrict[serverSettings]()).Decode(Source{StoreID: "s"}, map[string]any{"zone": "a", "base": "x"})
	var unmapped *UnmappedError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected UnmappedError, got %v", err)
	}
	if unmapped.StoreID != "s" || !reflect.DeepEqual([]string{"base", "zone"}, unmapped.Slots) {
		t.Fatalf("unexpected error fields: %+v", unmapped)
	}
}

func TestUnmappedFieldRules(t *testing.T) {
	type inner struct {
		Region string `json:"region"`
	}
	type Embedded struct {
		Zone string `json:"zone"`
	}
	type target struct {
		Embedded
		Name    string          `json:"name"`
		Skipped string          `json:"-"`
		Inner   *inner          `json:"inner"`
		Any     any             `json:"any"`
		Raw     json.RawMessage `json:"raw"`
		Counts  map[int]int     `json:"counts"`
		hidden  string
	}
	tree := map[string]any{
		"name":    "svc",
		"zone":    "a",
		"Skipped": "x",
		"inner":   map[string]any{"region": "eu", "size": 3},
		"any":     map[string]any{"deep": map[string]any{"x": 1}},
		"raw":     map[string]any{"k": "v"},
		"counts":  map[string]any{"1": 2, "2": map[string]any{"x": 1}},
		"hidden":  "h",
	}
	want := []string{"Skipped", "counts(2,x)", "hidden", "inner(size)"}
	if got := Unmapped[target](tree); !reflect.DeepEqual(want, got) {
		t.Fatalf("unmapped:\nwant: %v\n got: %v", want, got)
	}
}

func TestSlotRef(t *testing.T) {
	cases := map[string][]string{
		"name":           {"name"},
		"server(port)":   {"server", "port"},
		"server(tls,on)": {"server", "tls", "on"},
	}
	for want, path := range cases {
		if got := SlotRef(path); got != want {
			t.Fatalf("SlotRef(%v): want %q, got %q", path, want, got)
		}
	}
}

func TestDecoderNilTree(t *testing.T) {
	_, err := NewDecoder[serverSettings]().Decode(Source{StoreID: "s"}, nil)
	if err == nil || !strings.Contains(err.Error(), "tree is nil") {
		t.Fatalf("expected nil tree error, got %v", err)
	}
}

func TestDecoderDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"server": map[string]any{"host": "h"}}
	hook := WithPreHook[serverSettings](func(_ Source, tree map[string]any) (map[string]any, error) {
		tree["server"].(map[string]any)["host"] = "changed"
		return tree, nil
	})
	result, err := NewDecoder(hook).Decode(Source{}, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Value.Server.Host != "changed" {
		t.Fatalf("expected hook change applied, got %q", result.Value.Server.Host)
	}
	if input["server"].(map[string]any)["host"] != "h" {
		t.Fatalf("input tree mutated: %#v", input)
	}
}

func TestDecoderHooks(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewDecoder(WithPreHook[serverSettings](func(Source, map[string]any) (map[string]any, error) {
		return nil, boom
	})).Decode(Source{StoreID: "pre"}, map[string]any{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "pre-hook") {
		t.Fatalf("expected wrapped pre-hook error, got %v", err)
	}

	var seen Source
	post := WithPostHook[serverSettings](func(src Source, s *serverSettings) error {
		seen = src
		if s.Server.Port == 0 {
			return boom
		}
		s.Server.Host = strings.ToUpper(s.Server.Host)
		return nil
	})
	_, err = NewDecoder(post).Decode(Source{StoreID: "post", Mode: "str"}, map[string]any{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "post-hook") {
		t.Fatalf("expected wrapped post-hook error, got %v", err)
	}
	if seen.StoreID != "post" || seen.Mode != "str" {
		t.Fatalf("expected source passed to post-hook, got %+v", seen)
	}

	result, err := NewDecoder(post).Decode(Source{}, map[string]any{"server": map[string]any{"host": "h", "port": 1}})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Value.Server.Host != "H" {
		t.Fatalf("expected post-hook change applied, got %q", result.Value.Server.Host)
	}
}

func TestDecoderUseNumber(t *testing.T) {
	type loose struct {
		Value any `json:"value"`
	}
	result, err := NewDecoder(WithUseNumber[loose]()).Decode(Source{}, map[string]any{"value": 3})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := result.Value.Value.(json.Number); !ok {
		t.Fatalf("expected json.Number, got %T", result.Value.Value)
	}
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name      string         `json:"name"`
	Store     string         `json:"store"`
	Options   []string       `json:"options"`
	Input     map[string]any `json:"input"`
	Expect    serverSettings `json:"expect"`
	ExpectErr string         `json:"expect_err"`
	Unmapped  []string       `json:"unmapped"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", name, err)
	}
	return fx
}
