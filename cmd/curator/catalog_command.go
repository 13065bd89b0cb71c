package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/inventory"
	"curator/internal/services"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Streaming catalog utilities",
	}
	catalogCmd.AddCommand(newCatalogLoadCommand(ctx))
	return catalogCmd
}

// catalogRow is the accepted shape of one raw catalog entry. Either
// video_id or id identifies the row.
type catalogRow struct {
	VideoID     string  `json:"video_id"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	DurationSec float64 `json:"duration_sec"`
}

func newCatalogLoadCommand(ctx *commandContext) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "load <file.json>",
		Short: "Normalize a catalog dump into the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return services.Wrap(services.ErrIO, "catalog", "read dump", args[0], err)
			}
			rawRows, err := decodeDump(data)
			if err != nil {
				return services.Wrap(services.ErrInputShape, "catalog", "decode dump", args[0], err)
			}

			videos := make([]inventory.CatalogVideo, 0, len(rawRows))
			skipped := 0
			for _, raw := range rawRows {
				var row catalogRow
				if err := json.Unmarshal(raw, &row); err != nil {
					skipped++
					continue
				}
				id := row.VideoID
				if id == "" {
					id = row.ID
				}
				if id == "" || row.Title == "" {
					skipped++
					continue
				}
				videos = append(videos, catalog.Normalize(id, row.Title, row.DurationSec, string(raw)))
			}

			if replace {
				if _, err := store.DeleteAllCatalogVideos(cmd.Context()); err != nil {
					return err
				}
			}
			rejected, err := store.UpsertCatalogVideos(cmd.Context(), videos)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d catalog videos (%d skipped, %d rejected)\n",
				len(videos)-len(rejected), skipped, len(rejected))
			for _, r := range rejected {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", r.Key, r.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Delete existing catalog entries first")
	return cmd
}
