package recording_test

import (
	"os"
	"path/filepath"
	"testing"

	"dubforge/internal/recording"
)

func TestTakeStoreSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recordings")
	store, err := recording.NewTakeStore(dir)
	if err != nil {
		t.Fatalf("NewTakeStore: %v", err)
	}

	path, err := store.Save([]byte("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved take: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("take content = %q", data)
	}

	// No temp residue after a successful save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", entry.Name())
		}
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("take still present after remove: %v", err)
	}
	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove of missing take should be nil, got %v", err)
	}
}

func TestTakeStoreRejectsForeignPath(t *testing.T) {
	store, err := recording.NewTakeStore(filepath.Join(t.TempDir(), "recordings"))
	if err != nil {
		t.Fatalf("NewTakeStore: %v", err)
	}
	if err := store.Remove("/etc/passwd"); err == nil {
		t.Fatal("expected error removing path outside the recordings dir")
	}
}

func TestTakeStoreUniqueNames(t *testing.T) {
	store, err := recording.NewTakeStore(filepath.Join(t.TempDir(), "recordings"))
	if err != nil {
		t.Fatalf("NewTakeStore: %v", err)
	}
	first, err := store.Save([]byte("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save([]byte("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Fatalf("takes collided on %s", first)
	}
}
