package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/inventory"
	"curator/internal/services"
)

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:   "segments",
		Short: "Hand segment utilities",
	}
	segmentsCmd.AddCommand(newSegmentsLoadCommand(ctx))
	return segmentsCmd
}

// segmentRow is one spreadsheet row in the accepted dump format. The parent
// asset is addressed by file path or directly by uuid.
type segmentRow struct {
	FilePath    string   `json:"file_path"`
	AssetUUID   string   `json:"asset_uuid"`
	RowNumber   int      `json:"row_number"`
	TimeInSec   float64  `json:"time_in_sec"`
	TimeOutSec  float64  `json:"time_out_sec"`
	SegmentType string   `json:"segment_type"`
	Players     []string `json:"players"`
	Winner      string   `json:"winner"`
	WinningHand string   `json:"winning_hand"`
	LosingHand  string   `json:"losing_hand"`
	PotSize     float64  `json:"pot_size"`
	AllInStage  string   `json:"all_in_stage"`
	ActionTags  []string `json:"action_tags"`
	EmotionTags []string `json:"emotion_tags"`
}

func newSegmentsLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.json>",
		Short: "Ingest hand segments from a spreadsheet dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return services.Wrap(services.ErrIO, "segments", "read dump", args[0], err)
			}
			rawRows, err := decodeDump(data)
			if err != nil {
				return services.Wrap(services.ErrInputShape, "segments", "decode dump", args[0], err)
			}
			rows := make([]segmentRow, 0, len(rawRows))
			for _, raw := range rawRows {
				var row segmentRow
				if err := json.Unmarshal(raw, &row); err != nil {
					return services.Wrap(services.ErrInputShape, "segments", "decode row", args[0], err)
				}
				rows = append(rows, row)
			}

			segments := make([]inventory.Segment, 0, len(rows))
			orphans := 0
			for _, row := range rows {
				parent := row.AssetUUID
				if parent == "" && row.FilePath != "" {
					if asset, lookupErr := store.GetAssetByPath(cmd.Context(), row.FilePath); lookupErr == nil {
						parent = asset.UUID
					} else {
						// The uuid is a pure function of the path, so a row
						// whose exact path was never scanned can still derive
						// its parent. Existence is enforced by the store's
						// foreign key either way.
						parent = classify.AssetUUID(row.FilePath)
					}
				}
				if parent == "" {
					orphans++
					continue
				}
				segments = append(segments, inventory.Segment{
					ParentAssetUUID: parent,
					RowNumber:       row.RowNumber,
					TimeInSec:       row.TimeInSec,
					TimeOutSec:      row.TimeOutSec,
					SegmentType:     row.SegmentType,
					Players:         row.Players,
					Winner:          row.Winner,
					WinningHand:     row.WinningHand,
					LosingHand:      row.LosingHand,
					PotSize:         row.PotSize,
					AllInStage:      row.AllInStage,
					ActionTags:      row.ActionTags,
					EmotionTags:     row.EmotionTags,
				})
			}

			rejected, err := store.UpsertSegments(cmd.Context(), segments)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d segments (%d rejected, %d without parent reference)\n",
				len(segments)-len(rejected), len(rejected), orphans)
			for _, r := range rejected {
				kind := "invalid"
				if errors.Is(r.Err, services.ErrNotFound) {
					kind = "missing parent"
				}
				fmt.Fprintf(out, "  %s (%s): %v\n", r.Key, kind, r.Err)
			}
			return nil
		},
	}
}
