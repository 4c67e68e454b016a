package preflight_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubforge/internal/preflight"
	"dubforge/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("expected accessible dir to pass: %+v", result)
	}

	missing := preflight.CheckDirectoryAccess("Data directory", filepath.Join(dir, "absent"))
	if missing.Passed {
		t.Fatalf("expected missing dir to fail: %+v", missing)
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", missing.Detail)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := preflight.CheckDirectoryAccess("Data directory", file)
	if notDir.Passed {
		t.Fatalf("expected non-directory to fail: %+v", notDir)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckFreeSpace("Free space", dir, 1)
	if !result.Passed {
		t.Fatalf("expected 1 MiB floor to pass on temp dir: %+v", result)
	}

	missing := preflight.CheckFreeSpace("Free space", filepath.Join(dir, "absent"), 1)
	if missing.Passed {
		t.Fatalf("expected statfs on missing path to fail: %+v", missing)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(cfg)
	if len(results) == 0 {
		t.Fatal("expected at least one check")
	}
	if !preflight.AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	if preflight.RunAll(nil) != nil {
		t.Fatal("nil config should produce no results")
	}
}
