// Package catalog persists source assets and translation lines in SQLite and
// enforces the line status ladder: not_translated, translated, reviewed,
// approved. Editing translated text always re-derives the status, so a cleared
// line falls back to not_translated and an edited line drops any earlier
// review or approval. Keys are unique per asset, which makes re-ingesting the
// same file a no-op.
package catalog
