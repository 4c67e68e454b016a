package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dubforge/internal/audio"
	"dubforge/internal/catalog"
	"dubforge/internal/config"
	"dubforge/internal/recording"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var takePath string
	var trimSpec string
	var leadIn float64
	var leadOut float64

	cmd := &cobra.Command{
		Use:   "record <line-id>",
		Short: "Attach an edited take to a translated line",
		Long: `Load a WAV take, apply optional edits, and store the result against the line.

The line must carry translated text; recording against an untranslated line is
refused. --trim takes "start:end" in seconds and runs before the lead-in and
lead-out silence pads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(takePath) == "" {
				return fmt.Errorf("--take is required")
			}

			edits := recording.Edits{LeadInSec: leadIn, LeadOutSec: leadOut}
			if trimSpec != "" {
				start, end, err := parseTrimSpec(trimSpec)
				if err != nil {
					return err
				}
				edits.TrimStartSec = start
				edits.TrimEndSec = end
			}

			path, err := config.ExpandPath(takePath)
			if err != nil {
				return fmt.Errorf("resolve take path: %w", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read take: %w", err)
			}
			take, err := audio.DecodeWAV(data)
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				takes, err := recording.NewTakeStore(cfg.Paths.RecordingsDir)
				if err != nil {
					return err
				}
				workflow := recording.NewWorkflow(store, takes, ctx.ensureLogger())
				stored, err := workflow.Record(cmd.Context(), lineID, take, edits)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored take for line %d at %s\n", lineID, stored)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&takePath, "take", "", "Path to the recorded WAV take")
	cmd.Flags().StringVar(&trimSpec, "trim", "", "Trim range in seconds, start:end")
	cmd.Flags().Float64Var(&leadIn, "lead", 0, "Silence to prepend, in seconds")
	cmd.Flags().Float64Var(&leadOut, "tail", 0, "Silence to append, in seconds")
	return cmd
}

func parseTrimSpec(spec string) (float64, float64, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid trim %q, expected start:end", spec)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid trim start %q", parts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid trim end %q", parts[1])
	}
	return start, end, nil
}
