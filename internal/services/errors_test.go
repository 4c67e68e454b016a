package services_test

import (
	"errors"
	"strings"
	"testing"

	"dubforge/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrMalformedInput, "parse", "unity-json", "decode", base)
	if !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	if !strings.Contains(err.Error(), "parse: unity-json: decode") {
		t.Fatalf("expected detail in message, got %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "catalog", "insert", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default, got %v", err)
	}
}

func TestIsUserError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrNoScript, "recording", "record", "", nil), true},
		{services.Wrap(services.ErrUnsupportedFormat, "ingest", "resolve", "", nil), true},
		{services.Wrap(services.ErrTransient, "catalog", "insert", "", nil), false},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := services.IsUserError(tc.err); got != tc.want {
			t.Fatalf("IsUserError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
