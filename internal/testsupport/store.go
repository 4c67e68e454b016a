package testsupport

import (
	"context"
	"testing"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTextAsset registers a text source asset for tests using the provided store.
func NewTextAsset(t testing.TB, store *catalog.Store, name, path string) *catalog.SourceAsset {
	t.Helper()

	asset, err := store.CreateAsset(context.Background(), catalog.AssetText, name, path)
	if err != nil {
		t.Fatalf("store.CreateAsset: %v", err)
	}
	return asset
}

// NewAudioAsset registers an audio source asset for tests.
func NewAudioAsset(t testing.TB, store *catalog.Store, name, path string) *catalog.SourceAsset {
	t.Helper()

	asset, err := store.CreateAsset(context.Background(), catalog.AssetAudio, name, path)
	if err != nil {
		t.Fatalf("store.CreateAsset: %v", err)
	}
	return asset
}

// InsertLines stores the given key/text pairs on the asset and fails the test
// on error.
func InsertLines(t testing.TB, store *catalog.Store, assetID int64, lines []catalog.NewLine) {
	t.Helper()

	if err := store.InsertLines(context.Background(), assetID, lines); err != nil {
		t.Fatalf("store.InsertLines: %v", err)
	}
}
