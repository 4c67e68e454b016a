package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"dubforge/internal/catalog"
	"dubforge/internal/ingest"
	"dubforge/internal/logging"
	"dubforge/internal/parse"
	"dubforge/internal/services"
	"dubforge/internal/testsupport"
)

func TestIngestUnityJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	path := filepath.Join(t.TempDir(), "dialogue.json")
	testsupport.WriteFile(t, path, []byte(`{"ui": {"start": "Start", "quit": "Quit"}, "npc.greet": "Hello"}`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	result, err := svc.Ingest(context.Background(), asset.ID, path, parse.FormatUnityJSON)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Parsed != 3 || result.Inserted != 3 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	lines, err := store.ListLines(context.Background(), catalog.LineFilter{AssetID: asset.ID})
	if err != nil {
		t.Fatalf("ListLines failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 stored lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Status != catalog.StatusNotTranslated {
			t.Fatalf("line %s status = %s, want not_translated", line.Key, line.Status)
		}
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	path := filepath.Join(t.TempDir(), "dialogue.json")
	testsupport.WriteFile(t, path, []byte(`{"npc.greet": "Hello", "npc.farewell": "Goodbye"}`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	ctx := context.Background()
	if _, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	second, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON)
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if second.Inserted != 0 || second.Skipped != 2 {
		t.Fatalf("re-ingest should insert nothing: %+v", second)
	}
}

func TestIngestPreservesTranslations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	path := filepath.Join(t.TempDir(), "dialogue.json")
	testsupport.WriteFile(t, path, []byte(`{"npc.greet": "Hello"}`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	ctx := context.Background()
	if _, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	lines, _ := store.ListLines(ctx, catalog.LineFilter{AssetID: asset.ID})
	if _, err := store.SetTranslation(ctx, lines[0].ID, "Merhaba"); err != nil {
		t.Fatalf("SetTranslation: %v", err)
	}

	if _, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON); err != nil {
		t.Fatalf("re-ingest failed: %v", err)
	}
	after, err := store.GetLine(ctx, lines[0].ID)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if after.Status != catalog.StatusTranslated || !after.HasScript() {
		t.Fatalf("re-ingest clobbered translation: %#v", after)
	}
}

func TestIngestUnknownFormat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	svc := ingest.NewService(store, cfg, logging.NewNop())
	_, err := svc.Ingest(context.Background(), asset.ID, "/nowhere", "gettext-po")
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIngestMalformedFileWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	path := filepath.Join(t.TempDir(), "broken.json")
	testsupport.WriteFile(t, path, []byte(`{"npc.greet": "Hello",`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	ctx := context.Background()
	_, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON)
	if !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}

	lines, err := store.ListLines(ctx, catalog.LineFilter{AssetID: asset.ID})
	if err != nil {
		t.Fatalf("ListLines failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("malformed ingest must write nothing, found %d lines", len(lines))
	}
}

func TestIngestRejectsKeysCollidingAfterNormalization(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	// "café" with composed U+00E9 and with decomposed e + U+0301: distinct
	// bytes, identical after NFC.
	path := filepath.Join(t.TempDir(), "dialogue.json")
	payload := "{\"café\": \"A\", \"café\": \"B\", \"npc.greet\": \"Hello\"}"
	testsupport.WriteFile(t, path, []byte(payload))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	ctx := context.Background()
	_, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON)
	if !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for colliding keys, got %v", err)
	}
	if !strings.Contains(err.Error(), "café") {
		t.Fatalf("error should name the colliding key: %v", err)
	}

	lines, listErr := store.ListLines(ctx, catalog.LineFilter{AssetID: asset.ID})
	if listErr != nil {
		t.Fatalf("ListLines failed: %v", listErr)
	}
	if len(lines) != 0 {
		t.Fatalf("colliding file must write nothing, found %d lines", len(lines))
	}
}

func TestIngestRejectsAudioAsset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewAudioAsset(t, store, "voice.wav", "/audio/voice.wav")

	path := filepath.Join(t.TempDir(), "dialogue.json")
	testsupport.WriteFile(t, path, []byte(`{"npc.greet": "Hello"}`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	_, err := svc.Ingest(context.Background(), asset.ID, path, parse.FormatUnityJSON)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIngestUnknownAsset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	svc := ingest.NewService(store, cfg, logging.NewNop())
	_, err := svc.Ingest(context.Background(), 77, "/nowhere.json", parse.FormatUnityJSON)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestEmptyObject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "empty.json", "/exports/empty.json")

	path := filepath.Join(t.TempDir(), "empty.json")
	testsupport.WriteFile(t, path, []byte(`{}`))

	svc := ingest.NewService(store, cfg, logging.NewNop())
	result, err := svc.Ingest(context.Background(), asset.ID, path, parse.FormatUnityJSON)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Parsed != 0 || result.Inserted != 0 {
		t.Fatalf("empty object should ingest nothing: %+v", result)
	}
}

func TestIngestFilesConcurrent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	dir := t.TempDir()
	var requests []ingest.FileRequest
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("chunk-%d.json", i)
		asset := testsupport.NewTextAsset(t, store, name, filepath.Join("/exports", name))
		path := filepath.Join(dir, name)
		testsupport.WriteFile(t, path, []byte(fmt.Sprintf(`{"chunk.%d.line": "Text %d"}`, i, i)))
		requests = append(requests, ingest.FileRequest{AssetID: asset.ID, Path: path, FormatID: parse.FormatUnityJSON})
	}

	svc := ingest.NewService(store, cfg, logging.NewNop())
	results, err := svc.IngestFiles(context.Background(), requests)
	if err != nil {
		t.Fatalf("IngestFiles failed: %v", err)
	}
	if len(results) != len(requests) {
		t.Fatalf("expected %d results, got %d", len(requests), len(results))
	}
	for _, result := range results {
		if result == nil || result.Inserted != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
}
