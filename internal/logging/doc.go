// Package logging builds slog loggers with console and JSON handlers plus
// context-derived fields shared across the pipeline components.
package logging
