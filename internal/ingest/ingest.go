// Package ingest pulls localization exports through a format adapter and
// lands their lines in the catalog. Ingestion is idempotent per asset: keys
// already stored are skipped, so re-running the same file converges to zero
// inserts.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
	"dubforge/internal/logging"
	"dubforge/internal/parse"
	"dubforge/internal/services"
)

// insertAttempts bounds the skip-and-retry loop when a concurrent ingest of
// the same asset wins a key race.
const insertAttempts = 3

// Service ingests localization files into the catalog.
type Service struct {
	store  *catalog.Store
	cfg    *config.Config
	logger *slog.Logger

	// beforeInsert runs between the key read and the batch insert. Tests use
	// it to interleave a competing writer at the exact race window.
	beforeInsert func()
}

// NewService wires an ingest service over the given store.
func NewService(store *catalog.Store, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "ingest"),
	}
}

// Result summarizes one ingest run.
type Result struct {
	AssetID  int64
	Path     string
	Format   string
	Parsed   int
	Inserted int
	Skipped  int
	Elapsed  time.Duration
}

// Ingest parses the file at path with the adapter registered under formatID
// and inserts every line whose key the asset does not already hold. Unknown
// formats fail with ErrUnsupportedFormat and malformed payloads with
// ErrMalformedInput; in both cases nothing is written.
func (s *Service) Ingest(ctx context.Context, assetID int64, path, formatID string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = services.WithAssetID(services.WithFormat(services.WithRequestID(ctx, runID), formatID), assetID)
	logger := logging.WithContext(ctx, s.logger)

	adapter, ok := parse.Resolve(formatID)
	if !ok {
		return nil, services.Wrap(services.ErrUnsupportedFormat, "ingest", "resolve format",
			fmt.Sprintf("no adapter registered for %q", formatID), nil)
	}

	asset, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, services.Wrap(services.ErrNotFound, "ingest", "load asset", fmt.Sprintf("asset %d", assetID), nil)
	}
	if asset.Type != catalog.AssetText {
		return nil, services.Wrap(services.ErrValidation, "ingest", "load asset",
			fmt.Sprintf("asset %d is %s, only text assets carry lines", assetID, asset.Type), nil)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ingest", "read file", path, err)
	}

	parsed, err := adapter.Parse(payload)
	if err != nil {
		return nil, err
	}
	lines, err := normalizeLines(parsed)
	if err != nil {
		return nil, err
	}

	logger.Info("parsed localization file",
		slog.String("path", path),
		slog.Int("lines", len(lines)))

	result := &Result{AssetID: assetID, Path: path, Format: formatID, Parsed: len(lines)}
	if len(lines) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	inserted, skipped, err := s.insertNewLines(ctx, assetID, lines)
	if err != nil {
		return nil, err
	}
	result.Inserted = inserted
	result.Skipped = skipped
	result.Elapsed = time.Since(start)

	logger.Info("ingest complete",
		slog.String("path", path),
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped),
		slog.Duration("elapsed", result.Elapsed))
	return result, nil
}

// insertNewLines filters against the stored key set and bulk-inserts the rest.
// A unique-key conflict means another run inserted a key between our read and
// write; refreshing the key set and retrying converges because every pass only
// shrinks the candidate list.
func (s *Service) insertNewLines(ctx context.Context, assetID int64, lines []catalog.NewLine) (int, int, error) {
	skipped := 0
	for attempt := 0; attempt < insertAttempts; attempt++ {
		existing, err := s.store.ExistingKeys(ctx, assetID)
		if err != nil {
			return 0, 0, err
		}

		fresh := make([]catalog.NewLine, 0, len(lines))
		for _, line := range lines {
			if _, ok := existing[line.Key]; ok {
				continue
			}
			fresh = append(fresh, line)
		}
		skipped = len(lines) - len(fresh)
		if len(fresh) == 0 {
			return 0, skipped, nil
		}

		if s.beforeInsert != nil {
			s.beforeInsert()
		}
		err = s.store.InsertLines(ctx, assetID, fresh)
		if err == nil {
			return len(fresh), skipped, nil
		}
		if !catalog.IsDuplicateKey(err) {
			return 0, 0, err
		}
	}
	return 0, 0, services.Wrap(services.ErrTransient, "ingest", "insert lines",
		fmt.Sprintf("asset %d keys kept racing after %d attempts", assetID, insertAttempts), nil)
}

// FileRequest pairs a registered asset with the file and format to ingest.
type FileRequest struct {
	AssetID  int64
	Path     string
	FormatID string
}

// IngestFiles runs several ingests concurrently, bounded by the configured
// worker count. The first failure cancels the remaining work.
func (s *Service) IngestFiles(ctx context.Context, requests []FileRequest) ([]*Result, error) {
	results := make([]*Result, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Ingest.Workers)
	for i, req := range requests {
		group.Go(func() error {
			result, err := s.Ingest(groupCtx, req.AssetID, req.Path, req.FormatID)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", req.Path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// normalizeLines applies NFC so visually identical keys and text compare
// equal regardless of how the exporter composed them. Two byte-different keys
// that normalize to the same form would trip the per-asset uniqueness index
// against each other inside one batch, so the collision is rejected here as
// malformed input rather than surfacing later as a phantom race.
func normalizeLines(parsed []parse.Line) ([]catalog.NewLine, error) {
	lines := make([]catalog.NewLine, 0, len(parsed))
	seen := make(map[string]struct{}, len(parsed))
	for _, line := range parsed {
		key := norm.NFC.String(line.Key)
		if _, dup := seen[key]; dup {
			return nil, services.Wrap(services.ErrMalformedInput, "ingest", "normalize",
				fmt.Sprintf("keys collide after unicode normalization: %q", key), nil)
		}
		seen[key] = struct{}{}
		lines = append(lines, catalog.NewLine{
			Key:          key,
			OriginalText: norm.NFC.String(line.Text),
		})
	}
	return lines, nil
}
