package parse_test

import (
	"errors"
	"testing"

	"dubforge/internal/parse"
	"dubforge/internal/services"
)

func TestUnityJSONFlatKeys(t *testing.T) {
	adapter, ok := parse.Resolve(parse.FormatUnityJSON)
	if !ok {
		t.Fatal("unity-json adapter not registered")
	}

	lines, err := adapter.Parse([]byte(`{
		"greeting": "Hello",
		"farewell": "Goodbye",
		"menu_start": "Start Game"
	}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []parse.Line{
		{Key: "greeting", Text: "Hello"},
		{Key: "farewell", Text: "Goodbye"},
		{Key: "menu_start", Text: "Start Game"},
	}
	assertLines(t, lines, want)
}

func TestUnityJSONFlattensNestedCategories(t *testing.T) {
	adapter, _ := parse.Resolve(parse.FormatUnityJSON)

	lines, err := adapter.Parse([]byte(`{
		"ui": {
			"menu": {
				"start": "Start",
				"quit": "Quit"
			},
			"title": "Night Market"
		},
		"credits": "Thanks for playing"
	}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []parse.Line{
		{Key: "ui.menu.start", Text: "Start"},
		{Key: "ui.menu.quit", Text: "Quit"},
		{Key: "ui.title", Text: "Night Market"},
		{Key: "credits", Text: "Thanks for playing"},
	}
	assertLines(t, lines, want)
}

func TestUnityJSONEmptyObjectYieldsNoLines(t *testing.T) {
	adapter, _ := parse.Resolve(parse.FormatUnityJSON)

	lines, err := adapter.Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected zero lines, got %d", len(lines))
	}
}

func TestUnityJSONMalformed(t *testing.T) {
	adapter, _ := parse.Resolve(parse.FormatUnityJSON)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"key": "value"`},
		{"empty content", ``},
		{"top-level array", `["a", "b"]`},
		{"numeric value", `{"count": 3}`},
		{"array value", `{"items": ["a"]}`},
		{"null value", `{"key": null}`},
		{"duplicate flat key", `{"ui": {"start": "A"}, "ui.start": "B"}`},
		{"trailing content", `{"a": "b"} {"c": "d"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := adapter.Parse([]byte(tc.body)); !errors.Is(err, services.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestResolveUnknownFormat(t *testing.T) {
	if _, ok := parse.Resolve("gettext-po"); ok {
		t.Fatal("expected unknown format to resolve to absent")
	}
}

func TestFormatsListsRegisteredAdapters(t *testing.T) {
	formats := parse.Formats()
	found := map[string]bool{}
	for _, id := range formats {
		found[id] = true
	}
	if !found[parse.FormatUnityJSON] || !found[parse.FormatUnrealLocres] {
		t.Fatalf("expected built-in adapters in %v", formats)
	}
}

func assertLines(t *testing.T, got, want []parse.Line) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}
