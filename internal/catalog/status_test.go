package catalog_test

import (
	"testing"

	"dubforge/internal/catalog"
)

func TestStatusForEdit(t *testing.T) {
	cases := []struct {
		name string
		text string
		want catalog.Status
	}{
		{"empty", "", catalog.StatusNotTranslated},
		{"whitespace only", "   \t\n", catalog.StatusNotTranslated},
		{"plain text", "Merhaba", catalog.StatusTranslated},
		{"text with surrounding space", "  Merhaba dünya  ", catalog.StatusTranslated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.StatusForEdit(tc.text); got != tc.want {
				t.Fatalf("StatusForEdit(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestStatusTransitionGuards(t *testing.T) {
	for _, status := range catalog.AllStatuses() {
		if got := catalog.CanReview(status); got != (status == catalog.StatusTranslated) {
			t.Errorf("CanReview(%s) = %v", status, got)
		}
		if got := catalog.CanApprove(status); got != (status == catalog.StatusReviewed) {
			t.Errorf("CanApprove(%s) = %v", status, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range catalog.AllStatuses() {
		parsed, ok := catalog.ParseStatus(string(status))
		if !ok {
			t.Fatalf("ParseStatus(%s) not recognized", status)
		}
		if parsed != status {
			t.Fatalf("ParseStatus(%s) = %s", status, parsed)
		}
	}
	if _, ok := catalog.ParseStatus("recorded"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
