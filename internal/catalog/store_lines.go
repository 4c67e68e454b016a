package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dubforge/internal/services"
)

// ExistingKeys returns the set of line keys already stored for an asset.
func (s *Store) ExistingKeys(ctx context.Context, assetID int64) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM translation_lines WHERE source_asset_id = ?`, assetID)
	if err != nil {
		return nil, fmt.Errorf("query existing keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

// InsertLines bulk-inserts new lines for an asset in one transaction: either
// every line commits or none does. All lines start as not_translated with no
// translated text. A uniqueness violation rolls the whole batch back and is
// classifiable with IsDuplicateKey.
func (s *Store) InsertLines(ctx context.Context, assetID int64, lines []NewLine) error {
	if len(lines) == 0 {
		return nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnBusy(ensureContext(ctx), func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin insert tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO translation_lines (
                source_asset_id, key, original_text, translated_text, status, created_at, updated_at
            ) VALUES (?, ?, ?, NULL, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, line := range lines {
			if _, err := stmt.ExecContext(ctx, assetID, line.Key, line.OriginalText, StatusNotTranslated, timestamp, timestamp); err != nil {
				return fmt.Errorf("insert line %q: %w", line.Key, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit insert: %w", err)
		}
		return nil
	})
}

// GetLine fetches a translation line by identifier. A missing line returns nil.
func (s *Store) GetLine(ctx context.Context, id int64) (*TranslationLine, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+lineColumns+` FROM translation_lines WHERE id = ?`, id)
	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get line: %w", err)
	}
	return line, nil
}

// LineFilter narrows ListLines output. Zero values mean "any".
type LineFilter struct {
	AssetID  int64
	Statuses []Status
}

// ListLines returns lines matching the filter ordered by asset and insertion order.
func (s *Store) ListLines(ctx context.Context, filter LineFilter) ([]*TranslationLine, error) {
	query := `SELECT ` + lineColumns + ` FROM translation_lines`
	var clauses []string
	var args []any
	if filter.AssetID != 0 {
		clauses = append(clauses, "source_asset_id = ?")
		args = append(args, filter.AssetID)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY source_asset_id, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var lines []*TranslationLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// SetTranslation updates a line's translated text and derives the resulting
// status in one atomic update: empty text resets to not_translated, any
// non-empty edit lands on translated, invalidating prior review or approval.
func (s *Store) SetTranslation(ctx context.Context, id int64, text string) (*TranslationLine, error) {
	status := StatusForEdit(text)
	var stored any
	if status != StatusNotTranslated {
		stored = text
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE translation_lines SET translated_text = ?, status = ?, updated_at = ? WHERE id = ?`,
		stored,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("set translation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "set translation", fmt.Sprintf("line %d", id), nil)
	}
	return s.GetLine(ctx, id)
}

// ReviewLine moves a translated line to reviewed. The transition requires an
// explicit reviewer action and never skips rungs.
func (s *Store) ReviewLine(ctx context.Context, id int64) (*TranslationLine, error) {
	return s.advanceStatus(ctx, "review", id, CanReview, StatusReviewed)
}

// ApproveLine moves a reviewed line to approved.
func (s *Store) ApproveLine(ctx context.Context, id int64) (*TranslationLine, error) {
	return s.advanceStatus(ctx, "approve", id, CanApprove, StatusApproved)
}

// advanceStatus applies a reviewer transition as a single conditional UPDATE.
// The allowed predicate decides which current statuses the transition accepts,
// and the predicate is re-checked inside the WHERE clause so a concurrent edit
// between read and write cannot slip a line past the gate.
func (s *Store) advanceStatus(ctx context.Context, operation string, id int64, allowed func(Status) bool, to Status) (*TranslationLine, error) {
	var from []Status
	for _, status := range allStatuses {
		if allowed(status) {
			from = append(from, status)
		}
	}
	if len(from) == 0 {
		return nil, fmt.Errorf("%s line: no status permits the transition", operation)
	}

	args := []any{to, time.Now().UTC().Format(time.RFC3339Nano), id}
	placeholders := make([]string, len(from))
	for i, status := range from {
		placeholders[i] = "?"
		args = append(args, status)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE translation_lines SET status = ?, updated_at = ?
         WHERE id = ? AND status IN (`+strings.Join(placeholders, ",")+`)
           AND translated_text IS NOT NULL AND translated_text != ''`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%s line: %w", operation, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		line, getErr := s.GetLine(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if line == nil {
			return nil, services.Wrap(services.ErrNotFound, "catalog", operation, fmt.Sprintf("line %d", id), nil)
		}
		return nil, services.Wrap(services.ErrValidation, "catalog", operation,
			fmt.Sprintf("line %d is %s, must be %s with non-empty text", id, line.Status, joinStatuses(from)), nil)
	}
	return s.GetLine(ctx, id)
}

func joinStatuses(statuses []Status) string {
	parts := make([]string, len(statuses))
	for i, status := range statuses {
		parts[i] = string(status)
	}
	return strings.Join(parts, " or ")
}

// SetRecording attaches the persisted handle of an encoded take to a line.
func (s *Store) SetRecording(ctx context.Context, id int64, recordingPath string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE translation_lines SET recording_path = ?, updated_at = ? WHERE id = ?`,
		nullableString(recordingPath),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "set recording", fmt.Sprintf("line %d", id), nil)
	}
	return nil
}

// SetCharacter tags a line with the character who speaks it.
func (s *Store) SetCharacter(ctx context.Context, id int64, characterID *int64) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE translation_lines SET character_id = ?, updated_at = ? WHERE id = ?`,
		nullableInt64(characterID),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set character: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "set character", fmt.Sprintf("line %d", id), nil)
	}
	return nil
}

// SetOriginalVoice links a line to its source-language reference recording.
func (s *Store) SetOriginalVoice(ctx context.Context, id int64, assetID *int64) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE translation_lines SET original_voice_asset_id = ?, updated_at = ? WHERE id = ?`,
		nullableInt64(assetID),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set original voice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "set original voice", fmt.Sprintf("line %d", id), nil)
	}
	return nil
}

// RemoveLine deletes a line by identifier.
func (s *Store) RemoveLine(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM translation_lines WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns aggregate counts for status rendering.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM source_assets`).Scan(&stats.Assets); err != nil {
		return stats, fmt.Errorf("count assets: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM translation_lines GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("count lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.Lines += count
		switch status {
		case StatusNotTranslated:
			stats.NotTranslated = count
		case StatusTranslated:
			stats.Translated = count
		case StatusReviewed:
			stats.Reviewed = count
		case StatusApproved:
			stats.Approved = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM translation_lines WHERE recording_path IS NOT NULL AND recording_path != ''`,
	).Scan(&stats.Recorded); err != nil {
		return stats, fmt.Errorf("count recordings: %w", err)
	}
	return stats, nil
}

const lineColumns = "id, source_asset_id, key, original_text, translated_text, status, character_id, original_voice_asset_id, recording_path, created_at, updated_at"

func scanLine(scanner interface{ Scan(dest ...any) error }) (*TranslationLine, error) {
	var (
		id             int64
		assetID        int64
		key            string
		originalText   string
		translatedText sql.NullString
		statusStr      string
		characterID    sql.NullInt64
		originalVoice  sql.NullInt64
		recordingPath  sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&assetID,
		&key,
		&originalText,
		&translatedText,
		&statusStr,
		&characterID,
		&originalVoice,
		&recordingPath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	line := &TranslationLine{
		ID:            id,
		SourceAssetID: assetID,
		Key:           key,
		OriginalText:  originalText,
		Status:        Status(statusStr),
		RecordingPath: recordingPath.String,
	}
	if translatedText.Valid {
		text := translatedText.String
		line.TranslatedText = &text
	}
	if characterID.Valid {
		v := characterID.Int64
		line.CharacterID = &v
	}
	if originalVoice.Valid {
		v := originalVoice.Int64
		line.OriginalVoiceAssetID = &v
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		line.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		line.UpdatedAt = updated
	}
	return line, nil
}
