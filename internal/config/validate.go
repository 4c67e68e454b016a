package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProject(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.RecordingsDir == "" {
		return errors.New("paths.recordings_dir must be set")
	}
	return nil
}

func (c *Config) validateProject() error {
	if c.Project.SourceLanguage == "" {
		return errors.New("project.source_language must be set")
	}
	if c.Project.TargetLanguage == "" {
		return errors.New("project.target_language must be set")
	}
	if _, err := language.Parse(c.Project.SourceLanguage); err != nil {
		return fmt.Errorf("project.source_language %q is not a valid BCP 47 tag: %w", c.Project.SourceLanguage, err)
	}
	if _, err := language.Parse(c.Project.TargetLanguage); err != nil {
		return fmt.Errorf("project.target_language %q is not a valid BCP 47 tag: %w", c.Project.TargetLanguage, err)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if c.Audio.Channels <= 0 {
		return errors.New("audio.channels must be positive")
	}
	if c.Audio.MinFreeMiB < 0 {
		return errors.New("audio.min_free_mib must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
