package preflight

import (
	"dubforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every readiness check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Recordings directory", cfg.Paths.RecordingsDir),
	}

	if cfg.Audio.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Recordings free space", cfg.Paths.RecordingsDir, cfg.Audio.MinFreeMiB))
	}

	return results
}

// AllPassed reports whether every result in the slice passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
