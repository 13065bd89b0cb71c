package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newScansCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scans",
		Short: "Show scan history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			scans, err := store.ListScans(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, scans)
			}

			rows := make([][]string, 0, len(scans))
			for _, scan := range scans {
				rows = append(rows, []string{
					strconv.FormatInt(scan.ID, 10),
					string(scan.ScanType),
					string(scan.Status),
					scan.StartedAt.Format("2006-01-02 15:04:05"),
					strconv.Itoa(scan.TotalFiles),
					strconv.Itoa(scan.NewFiles),
					strconv.Itoa(scan.ModifiedFiles),
					strconv.Itoa(len(scan.Errors)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Type", "Status", "Started", "Files", "New", "Modified", "Errors"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d scans\n", len(scans))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N scans (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
