package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/mediainfo"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var (
		workers int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fill missing tech specs with the external probe tool",
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

			mediaCfg := cfg.MediaInfo
			if workers > 0 {
				mediaCfg.Workers = workers
			}

			runner := mediainfo.NewRunner(store, mediaCfg, ctx.ensureLogger())
			summary, err := runner.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Probed %d assets, %d failed\n", summary.Probed, summary.Failed)
			for _, msg := range summary.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Probe worker count (defaults to the configured one)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Probe at most N assets (0 = all)")
	return cmd
}
