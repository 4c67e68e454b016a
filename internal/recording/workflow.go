// Package recording gates take capture on translated text and persists
// encoded takes. A line with no script cannot be recorded: performers only
// ever see text the translation workflow has produced.
package recording

import (
	"context"
	"fmt"
	"log/slog"

	"dubforge/internal/audio"
	"dubforge/internal/catalog"
	"dubforge/internal/logging"
	"dubforge/internal/services"
)

// Edits describes the optional cleanup applied to a take before encoding.
// Trim runs first, then the silence pads.
type Edits struct {
	TrimStartSec float64
	TrimEndSec   float64
	LeadInSec    float64
	LeadOutSec   float64
}

func (e Edits) hasTrim() bool {
	return e.TrimStartSec != 0 || e.TrimEndSec != 0
}

// Workflow records takes against catalog lines.
type Workflow struct {
	store  *catalog.Store
	takes  *TakeStore
	logger *slog.Logger
}

// NewWorkflow wires a recording workflow over the catalog and take store.
func NewWorkflow(store *catalog.Store, takes *TakeStore, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		takes:  takes,
		logger: logging.NewComponentLogger(logger, "recording"),
	}
}

// Record applies the requested edits to the take, encodes it, stores the
// result, and attaches the stored path to the line. The line must carry a
// non-empty translated script; recording against an untranslated line fails
// with ErrNoScript before any audio work happens. No take file is created on
// any failure path.
func (w *Workflow) Record(ctx context.Context, lineID int64, take *audio.Buffer, edits Edits) (string, error) {
	ctx = services.WithLineID(ctx, lineID)
	logger := logging.WithContext(ctx, w.logger)

	line, err := w.store.GetLine(ctx, lineID)
	if err != nil {
		return "", err
	}
	if line == nil {
		return "", services.Wrap(services.ErrNotFound, "recording", "load line", fmt.Sprintf("line %d", lineID), nil)
	}
	if !line.HasScript() {
		return "", services.Wrap(services.ErrNoScript, "recording", "check script",
			fmt.Sprintf("line %d (%s) has no translated text", lineID, line.Key), nil)
	}

	asset, err := w.store.GetAsset(ctx, line.SourceAssetID)
	if err != nil {
		return "", err
	}
	if asset != nil && asset.NonDialogue {
		return "", services.Wrap(services.ErrValidation, "recording", "check asset",
			fmt.Sprintf("asset %d is flagged non-dialogue", line.SourceAssetID), nil)
	}

	edited, err := applyEdits(take, edits)
	if err != nil {
		return "", err
	}

	encoded, err := audio.EncodeWAV(edited)
	if err != nil {
		return "", err
	}

	path, err := w.takes.Save(encoded)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "recording", "store take", "", err)
	}

	if err := w.store.SetRecording(ctx, lineID, path); err != nil {
		// The line vanished between the gate and the write; do not orphan the file.
		_ = w.takes.Remove(path)
		return "", err
	}

	logger.Info("take recorded",
		slog.String("key", line.Key),
		slog.String("path", path),
		slog.Float64("duration_sec", edited.Duration()))
	return path, nil
}

func applyEdits(take *audio.Buffer, edits Edits) (*audio.Buffer, error) {
	if edits.LeadInSec < 0 || edits.LeadOutSec < 0 {
		return nil, services.Wrap(services.ErrInvalidRange, "recording", "apply edits",
			fmt.Sprintf("silence padding must not be negative: lead %.3f, tail %.3f", edits.LeadInSec, edits.LeadOutSec), nil)
	}
	result := take
	var err error
	if edits.hasTrim() {
		result, err = audio.Trim(result, edits.TrimStartSec, edits.TrimEndSec)
		if err != nil {
			return nil, err
		}
	}
	if edits.LeadInSec > 0 {
		result, err = audio.AddSilence(result, edits.LeadInSec, audio.SilenceStart)
		if err != nil {
			return nil, err
		}
	}
	if edits.LeadOutSec > 0 {
		result, err = audio.AddSilence(result, edits.LeadOutSec, audio.SilenceEnd)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
