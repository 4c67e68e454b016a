package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for the project workspace.
type Paths struct {
	DataDir       string `toml:"data_dir"`
	LogDir        string `toml:"log_dir"`
	RecordingsDir string `toml:"recordings_dir"`
}

// Project describes the localization project the workspace serves.
type Project struct {
	Name           string `toml:"name"`
	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`
}

// Audio contains capture defaults used when a take does not declare its own.
type Audio struct {
	SampleRate int `toml:"sample_rate"`
	Channels   int `toml:"channels"`
	// MinFreeMiB is the free-space floor enforced on the recordings
	// directory before an encoded take is written.
	MinFreeMiB int `toml:"min_free_mib"`
}

// Ingest contains tuning for the line ingestion service.
type Ingest struct {
	// Workers bounds concurrent file parses during batch ingestion.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dubforge.
//
// Configuration sections by subsystem:
//   - Paths: workspace directories (catalog db, logs, encoded takes)
//   - Project: project name plus source/target language tags
//   - Audio: capture defaults and recording disk-space floor
//   - Ingest: batch ingestion concurrency
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Project Project `toml:"project"`
	Audio   Audio   `toml:"audio"`
	Ingest  Ingest  `toml:"ingest"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dubforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for name, field := range map[string]*string{
		"paths.data_dir":       &c.Paths.DataDir,
		"paths.log_dir":        &c.Paths.LogDir,
		"paths.recordings_dir": &c.Paths.RecordingsDir,
	} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*field = expanded
	}

	c.Project.Name = strings.TrimSpace(c.Project.Name)
	c.Project.SourceLanguage = strings.TrimSpace(c.Project.SourceLanguage)
	c.Project.TargetLanguage = strings.TrimSpace(c.Project.TargetLanguage)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = defaultIngestWorkers
	}
	return nil
}

// EnsureDirectories creates required directories for workspace operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.RecordingsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the catalog database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
