package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dubforge/internal/services"
)

// CreateAsset inserts a new source asset and returns the stored row.
func (s *Store) CreateAsset(ctx context.Context, assetType AssetType, name, path string) (*SourceAsset, error) {
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "create asset", "name is required", nil)
	}
	if _, ok := ParseAssetType(string(assetType)); !ok {
		return nil, services.Wrap(services.ErrValidation, "catalog", "create asset", fmt.Sprintf("unknown asset type %q", assetType), nil)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO source_assets (type, name, path, non_dialogue, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		string(assetType),
		name,
		nullableString(path),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetAsset(ctx, id)
}

// GetAsset fetches a source asset by identifier. A missing asset returns nil.
func (s *Store) GetAsset(ctx context.Context, id int64) (*SourceAsset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM source_assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns all source assets ordered by creation time.
func (s *Store) ListAssets(ctx context.Context) ([]*SourceAsset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM source_assets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*SourceAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// SetNonDialogue flags or unflags an asset as pure SFX/music.
func (s *Store) SetNonDialogue(ctx context.Context, id int64, nonDialogue bool) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE source_assets SET non_dialogue = ?, updated_at = ? WHERE id = ?`,
		boolToInt(nonDialogue),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set non-dialogue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "set non-dialogue", fmt.Sprintf("asset %d", id), nil)
	}
	return nil
}

// RemoveAsset deletes an asset; its translation lines cascade away with it.
func (s *Store) RemoveAsset(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM source_assets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const assetColumns = "id, type, name, path, non_dialogue, created_at, updated_at"

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*SourceAsset, error) {
	var (
		id          int64
		typeStr     string
		name        string
		path        sql.NullString
		nonDialogue sql.NullInt64
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(&id, &typeStr, &name, &path, &nonDialogue, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	asset := &SourceAsset{
		ID:   id,
		Type: AssetType(typeStr),
		Name: name,
		Path: path.String,
	}
	if nonDialogue.Valid {
		asset.NonDialogue = nonDialogue.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		asset.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		asset.UpdatedAt = updated
	}
	return asset, nil
}
