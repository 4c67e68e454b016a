package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
)

const lineTextPreviewWidth = 40

func newLineCommand(ctx *commandContext) *cobra.Command {
	lineCmd := &cobra.Command{
		Use:   "line",
		Short: "Manage translation lines",
	}

	lineCmd.AddCommand(newLineListCommand(ctx))
	lineCmd.AddCommand(newLineShowCommand(ctx))
	lineCmd.AddCommand(newLineTranslateCommand(ctx))
	lineCmd.AddCommand(newLineClearCommand(ctx))
	lineCmd.AddCommand(newLineReviewCommand(ctx))
	lineCmd.AddCommand(newLineApproveCommand(ctx))
	lineCmd.AddCommand(newLineCharacterCommand(ctx))
	lineCmd.AddCommand(newLineVoiceCommand(ctx))
	lineCmd.AddCommand(newLineRemoveCommand(ctx))

	return lineCmd
}

func newLineListCommand(ctx *commandContext) *cobra.Command {
	var assetID int64
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List translation lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := catalog.LineFilter{AssetID: assetID}
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status, ok := catalog.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q (one of: %s)", trimmed, statusNames())
				}
				filter.Statuses = []catalog.Status{status}
			}

			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				lines, err := store.ListLines(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(lines) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No lines match")
					return nil
				}

				rows := make([][]string, 0, len(lines))
				for _, line := range lines {
					translated := ""
					if line.TranslatedText != nil {
						translated = previewText(*line.TranslatedText)
					}
					rows = append(rows, []string{
						strconv.FormatInt(line.ID, 10),
						strconv.FormatInt(line.SourceAssetID, 10),
						line.Key,
						previewText(line.OriginalText),
						translated,
						string(line.Status),
						yesNo(line.RecordingPath != ""),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]tableColumn{
						{title: "ID", numeric: true},
						{title: "Asset", numeric: true},
						{title: "Key"},
						{title: "Original", maxWidth: lineTextPreviewWidth},
						{title: "Translated", maxWidth: lineTextPreviewWidth},
						{title: "Status"},
						{title: "Take"},
					},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&assetID, "asset", "a", 0, "Restrict to one asset id")
	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Restrict to one status ("+statusNames()+")")
	return cmd
}

func newLineShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a line in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				line, err := store.GetLine(cmd.Context(), id)
				if err != nil {
					return err
				}
				if line == nil {
					return fmt.Errorf("line %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Line %d (asset %d)\n", line.ID, line.SourceAssetID)
				fmt.Fprintf(out, "Key:        %s\n", line.Key)
				fmt.Fprintf(out, "Status:     %s\n", line.Status)
				fmt.Fprintf(out, "Original:   %s\n", line.OriginalText)
				if line.TranslatedText != nil {
					fmt.Fprintf(out, "Translated: %s\n", *line.TranslatedText)
				} else {
					fmt.Fprintln(out, "Translated: (none)")
				}
				if line.RecordingPath != "" {
					fmt.Fprintf(out, "Recording:  %s\n", line.RecordingPath)
				}
				if line.CharacterID != nil {
					fmt.Fprintf(out, "Character:  %d\n", *line.CharacterID)
				}
				if line.OriginalVoiceAssetID != nil {
					fmt.Fprintf(out, "Voice ref:  asset %d\n", *line.OriginalVoiceAssetID)
				}
				fmt.Fprintf(out, "Updated:    %s\n", line.UpdatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
}

func newLineTranslateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <id> <text>",
		Short: "Set a line's translated text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				line, err := store.SetTranslation(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Line %d is now %s\n", line.ID, line.Status)
				return nil
			})
		},
	}
}

func newLineClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Clear a line's translated text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				line, err := store.SetTranslation(cmd.Context(), id, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Line %d is now %s\n", line.ID, line.Status)
				return nil
			})
		},
	}
}

func newLineReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review <id>",
		Short: "Mark a translated line as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				line, err := store.ReviewLine(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Line %d is now %s\n", line.ID, line.Status)
				return nil
			})
		},
	}
}

func newLineApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Mark a reviewed line as approved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				line, err := store.ApproveLine(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Line %d is now %s\n", line.ID, line.Status)
				return nil
			})
		},
	}
}

func newLineCharacterCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "character <id> [character-id]",
		Short: "Tag a line with the character who speaks it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var characterID *int64
			if !clear {
				if len(args) < 2 {
					return fmt.Errorf("character-id is required unless --clear is given")
				}
				value, err := parseID(args[1])
				if err != nil {
					return err
				}
				characterID = &value
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				if err := store.SetCharacter(cmd.Context(), id, characterID); err != nil {
					return err
				}
				if characterID == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Line %d character cleared\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Line %d tagged with character %d\n", id, *characterID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the character tag")
	return cmd
}

func newLineVoiceCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "voice <id> [asset-id]",
		Short: "Link a line to its source-language reference recording",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				var assetID *int64
				if !clear {
					if len(args) < 2 {
						return fmt.Errorf("asset-id is required unless --clear is given")
					}
					value, err := parseID(args[1])
					if err != nil {
						return err
					}
					asset, err := store.GetAsset(cmd.Context(), value)
					if err != nil {
						return err
					}
					if asset == nil {
						return fmt.Errorf("asset %d not found", value)
					}
					if asset.Type != catalog.AssetAudio {
						return fmt.Errorf("asset %d is %s, reference voice must be an audio asset", value, asset.Type)
					}
					assetID = &value
				}
				if err := store.SetOriginalVoice(cmd.Context(), id, assetID); err != nil {
					return err
				}
				if assetID == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Line %d reference voice cleared\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Line %d linked to voice asset %d\n", id, *assetID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the reference voice link")
	return cmd
}

func newLineRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				removed, err := store.RemoveLine(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("line %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed line %d\n", id)
				return nil
			})
		},
	}
}

// previewText flattens newlines for single-row rendering; the column's
// maxWidth handles truncation.
func previewText(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

func statusNames() string {
	statuses := catalog.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
