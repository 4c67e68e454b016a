package recording

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// TakeStore persists encoded takes under a single recordings directory. Writes
// go through a temp file plus rename so a crash never leaves a partial take,
// and a flock file lock keeps concurrent CLI invocations from interleaving.
type TakeStore struct {
	dir  string
	lock *flock.Flock
}

// NewTakeStore prepares the recordings directory and its lock file.
func NewTakeStore(dir string) (*TakeStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("recordings directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &TakeStore{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".takestore.lock")),
	}, nil
}

// Dir returns the recordings directory.
func (ts *TakeStore) Dir() string { return ts.dir }

// Save writes the encoded take under a fresh uuid filename and returns the
// final path. The data lands fully or not at all.
func (ts *TakeStore) Save(data []byte) (string, error) {
	if err := ts.lock.Lock(); err != nil {
		return "", fmt.Errorf("lock recordings dir: %w", err)
	}
	defer func() { _ = ts.lock.Unlock() }()

	final := filepath.Join(ts.dir, uuid.NewString()+".wav")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write take: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize take: %w", err)
	}
	return final, nil
}

// Remove deletes a stored take. Missing files are not an error.
func (ts *TakeStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if filepath.Dir(path) != ts.dir {
		return fmt.Errorf("path %s is outside the recordings dir", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove take: %w", err)
	}
	return nil
}
