package recording_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubforge/internal/audio"
	"dubforge/internal/catalog"
	"dubforge/internal/logging"
	"dubforge/internal/recording"
	"dubforge/internal/services"
	"dubforge/internal/testsupport"
)

func newWorkflow(t *testing.T) (*recording.Workflow, *catalog.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	takes, err := recording.NewTakeStore(cfg.Paths.RecordingsDir)
	if err != nil {
		t.Fatalf("NewTakeStore: %v", err)
	}
	return recording.NewWorkflow(store, takes, logging.NewNop()), store, cfg.Paths.RecordingsDir
}

func translatedLine(t *testing.T, store *catalog.Store) *catalog.TranslationLine {
	t.Helper()
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")
	testsupport.InsertLines(t, store, asset.ID, []catalog.NewLine{
		{Key: "npc.greet", OriginalText: "Hello"},
	})
	lines, err := store.ListLines(context.Background(), catalog.LineFilter{AssetID: asset.ID})
	if err != nil {
		t.Fatalf("ListLines: %v", err)
	}
	line, err := store.SetTranslation(context.Background(), lines[0].ID, "Merhaba")
	if err != nil {
		t.Fatalf("SetTranslation: %v", err)
	}
	return line
}

func toneBuffer(t *testing.T, seconds float64) *audio.Buffer {
	t.Helper()
	const rate = 44100
	frames := int(seconds * rate)
	channels := make([][]float64, 2)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
		for i := range channels[ch] {
			channels[ch][i] = 0.25
		}
	}
	buf, err := audio.FromSamples(rate, channels)
	if err != nil {
		t.Fatalf("FromSamples: %v", err)
	}
	return buf
}

func TestRecordStoresTakeAndLinksLine(t *testing.T) {
	workflow, store, recordingsDir := newWorkflow(t)
	line := translatedLine(t, store)

	ctx := context.Background()
	path, err := workflow.Record(ctx, line.ID, toneBuffer(t, 1.0), recording.Edits{})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if filepath.Dir(path) != recordingsDir {
		t.Fatalf("take landed outside recordings dir: %s", path)
	}
	if !strings.HasSuffix(path, ".wav") {
		t.Fatalf("expected .wav take, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read take: %v", err)
	}
	decoded, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("stored take does not decode: %v", err)
	}
	if decoded.SampleRate() != 44100 || decoded.Channels() != 2 || decoded.Frames() != 44100 {
		t.Fatalf("unexpected take shape: rate=%d ch=%d frames=%d",
			decoded.SampleRate(), decoded.Channels(), decoded.Frames())
	}

	stored, err := store.GetLine(ctx, line.ID)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if stored.RecordingPath != path {
		t.Fatalf("line recording path = %q, want %q", stored.RecordingPath, path)
	}
}

func TestRecordAppliesEdits(t *testing.T) {
	workflow, store, _ := newWorkflow(t)
	line := translatedLine(t, store)

	// Trim a 2s take to the middle second, then pad 0.5s on each side.
	path, err := workflow.Record(context.Background(), line.ID, toneBuffer(t, 2.0), recording.Edits{
		TrimStartSec: 0.5,
		TrimEndSec:   1.5,
		LeadInSec:    0.5,
		LeadOutSec:   0.5,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read take: %v", err)
	}
	decoded, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if decoded.Frames() != 2*44100 {
		t.Fatalf("expected 2s of frames after edits, got %d", decoded.Frames())
	}
	if decoded.Sample(0, 0) != 0 {
		t.Fatalf("lead-in should be silent, got %f", decoded.Sample(0, 0))
	}
	if decoded.Sample(0, decoded.Frames()-1) != 0 {
		t.Fatalf("lead-out should be silent, got %f", decoded.Sample(0, decoded.Frames()-1))
	}
}

func TestRecordRefusesUntranslatedLine(t *testing.T) {
	workflow, store, recordingsDir := newWorkflow(t)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")
	testsupport.InsertLines(t, store, asset.ID, []catalog.NewLine{
		{Key: "npc.greet", OriginalText: "Hello"},
	})
	lines, _ := store.ListLines(context.Background(), catalog.LineFilter{AssetID: asset.ID})

	_, err := workflow.Record(context.Background(), lines[0].ID, toneBuffer(t, 1.0), recording.Edits{})
	if !errors.Is(err, services.ErrNoScript) {
		t.Fatalf("expected ErrNoScript, got %v", err)
	}

	// The gate must fire before any file is written.
	entries, readErr := os.ReadDir(recordingsDir)
	if readErr != nil {
		t.Fatalf("read recordings dir: %v", readErr)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".wav") {
			t.Fatalf("unexpected take file %s", entry.Name())
		}
	}
}

func TestRecordRefusesClearedLine(t *testing.T) {
	workflow, store, _ := newWorkflow(t)
	line := translatedLine(t, store)

	ctx := context.Background()
	if _, err := store.SetTranslation(ctx, line.ID, ""); err != nil {
		t.Fatalf("SetTranslation clear: %v", err)
	}

	_, err := workflow.Record(ctx, line.ID, toneBuffer(t, 1.0), recording.Edits{})
	if !errors.Is(err, services.ErrNoScript) {
		t.Fatalf("expected ErrNoScript after clear, got %v", err)
	}
}

func TestRecordRefusesNonDialogueAsset(t *testing.T) {
	workflow, store, _ := newWorkflow(t)
	line := translatedLine(t, store)

	ctx := context.Background()
	if err := store.SetNonDialogue(ctx, line.SourceAssetID, true); err != nil {
		t.Fatalf("SetNonDialogue: %v", err)
	}

	_, err := workflow.Record(ctx, line.ID, toneBuffer(t, 1.0), recording.Edits{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecordUnknownLine(t *testing.T) {
	workflow, _, _ := newWorkflow(t)

	_, err := workflow.Record(context.Background(), 4242, toneBuffer(t, 1.0), recording.Edits{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordRejectsNegativePadding(t *testing.T) {
	workflow, store, recordingsDir := newWorkflow(t)
	line := translatedLine(t, store)

	cases := []struct {
		name  string
		edits recording.Edits
	}{
		{"negative lead", recording.Edits{LeadInSec: -0.5}},
		{"negative tail", recording.Edits{LeadOutSec: -0.5}},
	}
	for _, tc := range cases {
		_, err := workflow.Record(context.Background(), line.ID, toneBuffer(t, 1.0), tc.edits)
		if !errors.Is(err, services.ErrInvalidRange) {
			t.Fatalf("%s: expected ErrInvalidRange, got %v", tc.name, err)
		}
	}

	entries, readErr := os.ReadDir(recordingsDir)
	if readErr != nil {
		t.Fatalf("read recordings dir: %v", readErr)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".wav") {
			t.Fatalf("unexpected take file %s", entry.Name())
		}
	}
}

func TestRecordBadTrimLeavesNoFile(t *testing.T) {
	workflow, store, recordingsDir := newWorkflow(t)
	line := translatedLine(t, store)

	_, err := workflow.Record(context.Background(), line.ID, toneBuffer(t, 1.0), recording.Edits{
		TrimStartSec: 0.9,
		TrimEndSec:   0.1,
	})
	if !errors.Is(err, services.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	entries, readErr := os.ReadDir(recordingsDir)
	if readErr != nil {
		t.Fatalf("read recordings dir: %v", readErr)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".wav") {
			t.Fatalf("unexpected take file %s", entry.Name())
		}
	}
}
