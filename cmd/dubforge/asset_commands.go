package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"dubforge/internal/catalog"
	"dubforge/internal/config"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage source assets",
	}

	assetCmd.AddCommand(newAssetAddCommand(ctx))
	assetCmd.AddCommand(newAssetListCommand(ctx))
	assetCmd.AddCommand(newAssetSfxCommand(ctx))
	assetCmd.AddCommand(newAssetRemoveCommand(ctx))

	return assetCmd
}

func newAssetAddCommand(ctx *commandContext) *cobra.Command {
	var assetType string
	var name string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Register a source asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := catalog.ParseAssetType(assetType)
			if !ok {
				return fmt.Errorf("unknown asset type %q (text or audio)", assetType)
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve asset path: %w", err)
			}
			label := name
			if label == "" {
				label = filepath.Base(path)
			}

			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				asset, err := store.CreateAsset(cmd.Context(), parsed, label, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s asset %d (%s)\n", asset.Type, asset.ID, asset.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&assetType, "type", "t", "text", "Asset type: text or audio")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (defaults to the file name)")
	return cmd
}

func newAssetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				assets, err := store.ListAssets(cmd.Context())
				if err != nil {
					return err
				}
				if len(assets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assets registered")
					return nil
				}

				rows := make([][]string, 0, len(assets))
				for _, asset := range assets {
					rows = append(rows, []string{
						strconv.FormatInt(asset.ID, 10),
						string(asset.Type),
						asset.Name,
						asset.Path,
						yesNo(asset.NonDialogue),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]tableColumn{
						{title: "ID", numeric: true},
						{title: "Type"},
						{title: "Name"},
						{title: "Path"},
						{title: "SFX"},
					},
					rows,
				))
				return nil
			})
		},
	}
}

func newAssetSfxCommand(ctx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "sfx <id>",
		Short: "Flag an asset as pure SFX/music (excluded from dubbing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				if err := store.SetNonDialogue(cmd.Context(), id, !clear); err != nil {
					return err
				}
				if clear {
					fmt.Fprintf(cmd.OutOrStdout(), "Asset %d unflagged\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Asset %d flagged as non-dialogue\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the non-dialogue flag")
	return cmd
}

func newAssetRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an asset and all of its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				removed, err := store.RemoveAsset(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("asset %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed asset %d\n", id)
				return nil
			})
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
