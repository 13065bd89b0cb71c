package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/inventory"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		brandFlag  string
		yearFlag   int
		unmatched  bool
		catalog    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Coverage and unmatched-asset reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			if unmatched {
				if catalog {
					return runUnmatchedCatalogReport(cmd, store, brandFlag, yearFlag, jsonOutput)
				}
				return runUnmatchedReport(cmd, store, brandFlag, yearFlag, jsonOutput)
			}
			return runCoverageReport(cmd, store, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&brandFlag, "brand", "", "Restrict to one brand")
	cmd.Flags().IntVar(&yearFlag, "year", 0, "Restrict to one year")
	cmd.Flags().BoolVar(&unmatched, "unmatched", false, "List unmatched assets instead of coverage")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "With --unmatched, list unmatched catalog entries instead")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func runCoverageReport(cmd *cobra.Command, store *inventory.Store, jsonOutput bool) error {
	coverage, err := store.Coverage(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, coverage)
	}

	rows := make([][]string, 0, len(coverage))
	var total, matched int
	for _, row := range coverage {
		percent := 0.0
		if row.Total > 0 {
			percent = 100 * float64(row.Matched) / float64(row.Total)
		}
		rows = append(rows, []string{
			string(row.Brand),
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Matched),
			fmt.Sprintf("%.1f%%", percent),
		})
		total += row.Total
		matched += row.Matched
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Brand", "Year", "Assets", "Matched", "Coverage"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d assets, %d matched\n", total, matched)
	return nil
}

func runUnmatchedReport(cmd *cobra.Command, store *inventory.Store, brand string, year int, jsonOutput bool) error {
	matchedFlag := false
	filter := inventory.AssetFilter{Matched: &matchedFlag, Year: year}
	if brand != "" {
		filter.Brand = inventory.ParseBrand(brand)
	}
	assets, err := store.ListAssets(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, assets)
	}

	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		year := ""
		if a.Year != 0 {
			year = strconv.Itoa(a.Year)
		}
		rows = append(rows, []string{
			a.FileName,
			string(a.Brand),
			year,
			a.DayLabel,
			fmt.Sprintf("%.2f", a.Confidence),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"File", "Brand", "Year", "Day", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
	))
	fmt.Fprintf(cmd.OutOrStdout(), "%d unmatched assets\n", len(assets))
	return nil
}

func runUnmatchedCatalogReport(cmd *cobra.Command, store *inventory.Store, brand string, year int, jsonOutput bool) error {
	matchedFlag := false
	filter := inventory.CatalogFilter{Matched: &matchedFlag, Year: year}
	if brand != "" {
		filter.Brand = inventory.ParseBrand(brand)
	}
	videos, err := store.ListCatalogVideos(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd, videos)
	}

	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		year := ""
		if v.Year != 0 {
			year = strconv.Itoa(v.Year)
		}
		event := ""
		if v.EventNumber != 0 {
			event = strconv.Itoa(v.EventNumber)
		}
		rows = append(rows, []string{v.VideoID, v.Title, string(v.Brand), year, event, v.DayLabel})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Video ID", "Title", "Brand", "Year", "Event", "Day"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(cmd.OutOrStdout(), "%d unmatched catalog entries\n", len(videos))
	return nil
}
