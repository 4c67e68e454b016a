// Package services defines shared utilities consumed by the ingestion,
// catalog, and recording components.
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper that keep failure
//     classification consistent across the pipeline.
//   - Context helpers that stamp asset/line identifiers and correlation ids
//     for structured logging.
//
// Use these helpers when wiring new component logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
