package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"dubforge/internal/catalog"
	"dubforge/internal/logging"
	"dubforge/internal/parse"
	"dubforge/internal/testsupport"
)

// A competing ingest that lands a key between our key read and our batch
// insert must not fail the run: the duplicate-key rollback triggers a
// re-read that skips the stolen key and commits the rest.
func TestIngestConvergesUnderRacingInsert(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	asset := testsupport.NewTextAsset(t, store, "dialogue.json", "/exports/dialogue.json")

	path := filepath.Join(t.TempDir(), "dialogue.json")
	testsupport.WriteFile(t, path, []byte(`{"npc.greet": "Hello", "npc.farewell": "Goodbye"}`))

	svc := NewService(store, cfg, logging.NewNop())
	raced := false
	svc.beforeInsert = func() {
		if raced {
			return
		}
		raced = true
		testsupport.InsertLines(t, store, asset.ID, []catalog.NewLine{
			{Key: "npc.greet", OriginalText: "Hello"},
		})
	}

	ctx := context.Background()
	result, err := svc.Ingest(ctx, asset.ID, path, parse.FormatUnityJSON)
	if err != nil {
		t.Fatalf("Ingest failed under race: %v", err)
	}
	if !raced {
		t.Fatal("competing insert never fired")
	}
	if result.Inserted != 1 || result.Skipped != 1 {
		t.Fatalf("expected the losing key skipped and the rest inserted, got %+v", result)
	}

	lines, err := store.ListLines(ctx, catalog.LineFilter{AssetID: asset.ID})
	if err != nil {
		t.Fatalf("ListLines failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after convergence, got %d", len(lines))
	}
}
