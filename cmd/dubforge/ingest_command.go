package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
	"dubforge/internal/ingest"
	"dubforge/internal/parse"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var formatID string
	var assetID int64

	cmd := &cobra.Command{
		Use:   "ingest <file...>",
		Short: "Parse localization exports and land their lines in the catalog",
		Long: `Parse one or more localization exports with the named format adapter.

With --asset, a single file is ingested into that existing asset. Without it,
each file is registered as a new text asset and ingested concurrently.
Re-ingesting a file skips keys the asset already holds, so translated lines
are never overwritten.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.TrimSpace(formatID)
			if format == "" {
				return fmt.Errorf("--format is required (see `dubforge formats`)")
			}
			if assetID != 0 && len(args) > 1 {
				return fmt.Errorf("--asset accepts a single file")
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				svc := ingest.NewService(store, cfg, ctx.ensureLogger())
				out := cmd.OutOrStdout()

				if assetID != 0 {
					path, err := config.ExpandPath(args[0])
					if err != nil {
						return fmt.Errorf("resolve path: %w", err)
					}
					result, err := svc.Ingest(cmd.Context(), assetID, path, format)
					if err != nil {
						return err
					}
					printIngestResult(out, result)
					return nil
				}

				requests := make([]ingest.FileRequest, 0, len(args))
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return fmt.Errorf("resolve path %q: %w", arg, err)
					}
					asset, err := store.CreateAsset(cmd.Context(), catalog.AssetText, filepath.Base(path), path)
					if err != nil {
						return err
					}
					requests = append(requests, ingest.FileRequest{
						AssetID:  asset.ID,
						Path:     path,
						FormatID: format,
					})
				}

				results, err := svc.IngestFiles(cmd.Context(), requests)
				if err != nil {
					return err
				}
				for _, result := range results {
					printIngestResult(out, result)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatID, "format", "f", "", "Format adapter id (e.g. "+parse.FormatUnityJSON+")")
	cmd.Flags().Int64VarP(&assetID, "asset", "a", 0, "Ingest into an existing asset id")
	return cmd
}

func printIngestResult(out io.Writer, result *ingest.Result) {
	fmt.Fprintf(out, "asset %d: %d parsed, %d inserted, %d skipped (%s)\n",
		result.AssetID, result.Parsed, result.Inserted, result.Skipped, result.Path)
}
