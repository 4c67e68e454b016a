package testsupport

import (
	"path/filepath"
	"testing"

	"dubforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.RecordingsDir = filepath.Join(base, "recordings")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithLanguages overrides the project language pair on the test config.
func WithLanguages(source, target string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Project.SourceLanguage = source
		cfg.Project.TargetLanguage = target
	}
}

// WithAudioFormat overrides the recording sample rate and channel count.
func WithAudioFormat(sampleRate, channels int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Audio.SampleRate = sampleRate
		cfg.Audio.Channels = channels
	}
}
