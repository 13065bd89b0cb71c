package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/inventory"
	"curator/internal/match"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var minConfidence float64

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Recompute asset/catalog links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			release, err := store.AcquireWriteLock()
			if err != nil {
				return err
			}
			defer release()

			floor := cfg.Matcher.MinConfidence
			if cmd.Flags().Changed("min-confidence") {
				floor = minConfidence
			}

			matcher := match.New(store, ctx.ensureLogger(), match.Options{
				MinConfidence:       floor,
				SimilarityThreshold: cfg.Matcher.SimilarityThreshold,
			})
			summary, err := matcher.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Matched %d of %d assets (%d unmatched, %d without year)\n",
				summary.Matched, summary.TotalAssets, summary.Unmatched, summary.SkippedNoYear)
			for _, matchType := range []inventory.MatchType{
				inventory.MatchEventDay, inventory.MatchTitleSimilarity, inventory.MatchManual,
			} {
				if n := summary.ByType[matchType]; n > 0 {
					fmt.Fprintf(out, "  %s: %d\n", matchType, n)
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "Lowest accepted match confidence")
	return cmd
}
