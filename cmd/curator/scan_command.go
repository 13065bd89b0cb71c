package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/export"
	"curator/internal/inventory"
	"curator/internal/logging"
	"curator/internal/scanner"
	"curator/internal/services"
)

// upsertBatchSize bounds how many classified assets are held before a store
// commit, matching the store's own transaction chunking.
const upsertBatchSize = 100

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		allFiles      bool
		includeHidden bool
		computeHash   bool
		maxFiles      int
		incremental   bool
		listFiles     bool
		outputPath    string
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan the archive and classify every file into the inventory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.ArchiveRoot
			if len(args) == 1 {
				root = args[0]
			}
			if _, err := os.Stat(root); err != nil {
				return services.Wrap(services.ErrFatal, "scan", "stat root", root, err)
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

			summary, assets, err := runScan(cmd.Context(), cfg, store, ctx.ensureLogger(), scanRequest{
				root:          root,
				allFiles:      allFiles,
				includeHidden: includeHidden,
				computeHash:   computeHash,
				maxFiles:      maxFiles,
				incremental:   incremental,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if listFiles {
				fmt.Fprintln(out, renderAssetTable(assets))
			}
			if outputPath != "" {
				if err := writeAssetExport(outputPath, assets); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d assets to %s\n", len(assets), outputPath)
			}
			printScanSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFiles, "all-files", false, "Include non-video files")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include hidden files and directories")
	cmd.Flags().BoolVar(&computeHash, "hash", false, "Fingerprint the first 1 MiB of each file")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Stop after N files (0 = no limit)")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "Only process files new or modified since the last completed scan")
	cmd.Flags().BoolVar(&listFiles, "list", false, "Print the classified files as a table")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the scanned assets as a JSON export")
	return cmd
}

type scanRequest struct {
	root          string
	allFiles      bool
	includeHidden bool
	computeHash   bool
	maxFiles      int
	incremental   bool
}

type scanSummary struct {
	result   *scanner.Result
	upserted int
	rejected int
	scanType inventory.ScanType
}

func runScan(ctx context.Context, cfg *config.Config, store *inventory.Store, logger *slog.Logger, req scanRequest) (*scanSummary, []inventory.Asset, error) {
	origin := cfg.Scanner.SourceOrigin

	opts := scanner.Options{
		IncludeHidden: req.includeHidden || cfg.Scanner.IncludeHidden,
		ComputeHash:   req.computeHash || cfg.Scanner.ComputeHash,
		VideoOnly:     cfg.Scanner.VideoOnly && !req.allFiles,
		MaxFiles:      req.maxFiles,
	}

	scanType := inventory.ScanFull
	if req.incremental {
		scanType = inventory.ScanIncremental
		known, err := store.KnownPaths(ctx, origin)
		if err != nil {
			return nil, nil, err
		}
		opts.KnownPaths = known
		watermark, err := store.LatestCompletedScan(ctx)
		switch {
		case err == nil:
			opts.Since = watermark.StartedAt
		case errors.Is(err, services.ErrNotFound):
			// First scan ever; incremental degenerates to full.
		default:
			return nil, nil, err
		}
	} else {
		if _, err := store.DeleteAssetsBySource(ctx, origin); err != nil {
			return nil, nil, err
		}
	}

	scan, err := store.StartScan(ctx, scanType, req.root, scanOptionsJSON(opts))
	if err != nil {
		return nil, nil, err
	}

	summary := &scanSummary{scanType: scanType}
	var (
		assets    []inventory.Asset
		batch     []inventory.Asset
		rowErrors []string
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		rejected, err := store.UpsertAssets(ctx, batch)
		if err != nil {
			return err
		}
		for _, r := range rejected {
			rowErrors = append(rowErrors, fmt.Sprintf("%s: %v", r.Key, r.Err))
		}
		summary.rejected += len(rejected)
		summary.upserted += len(batch) - len(rejected)
		batch = batch[:0]
		return nil
	}

	result, err := scanner.Walk(ctx, req.root, opts, func(record scanner.FileRecord) error {
		asset := classify.Classify(record)
		asset.SourceOrigin = origin
		assets = append(assets, asset)
		batch = append(batch, asset)
		if len(batch) >= upsertBatchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		if failErr := store.FailScan(ctx, scan.ID, err.Error()); failErr != nil {
			logger.Info("mark scan failed", logging.Error(failErr))
		}
		return nil, nil, err
	}

	rowErrors = append(rowErrors, result.Errors...)
	if err := store.CompleteScan(ctx, scan.ID, result.TotalFiles, result.NewFiles, result.ModifiedFiles, rowErrors); err != nil {
		return nil, nil, err
	}

	summary.result = result
	logger.Info("scan complete",
		logging.String(logging.FieldPath, req.root),
		logging.Int("files", result.TotalFiles),
		logging.Int("upserted", summary.upserted),
		logging.Int("rejected", summary.rejected))
	return summary, assets, nil
}

func scanOptionsJSON(opts scanner.Options) string {
	return fmt.Sprintf(`{"include_hidden":%t,"compute_hash":%t,"video_only":%t,"max_files":%d}`,
		opts.IncludeHidden, opts.ComputeHash, opts.VideoOnly, opts.MaxFiles)
}

func renderAssetTable(assets []inventory.Asset) string {
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		year := ""
		if a.Year != 0 {
			year = fmt.Sprintf("%d", a.Year)
		}
		rows = append(rows, []string{
			a.FileName,
			string(a.Brand),
			year,
			string(a.AssetType),
			a.ParseMethod,
			fmt.Sprintf("%.2f", a.Confidence),
		})
	}
	return renderTable(
		[]string{"File", "Brand", "Year", "Type", "Parse", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
	)
}

func writeAssetExport(path string, assets []inventory.Asset) error {
	exported := make([]export.Asset, 0, len(assets))
	for _, a := range assets {
		exported = append(exported, export.FromAsset(a, nil))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	if err := export.WriteJSON(f, exported); err != nil {
		return err
	}
	return f.Close()
}

func printScanSummary(out io.Writer, s *scanSummary) {
	r := s.result
	fmt.Fprintf(out, "Scan (%s): %d files (%d video, %d other) in %d folders, %s\n",
		s.scanType, r.TotalFiles, r.VideoFiles, r.OtherFiles, r.FoldersScanned, formatBytes(r.TotalSizeBytes))
	fmt.Fprintf(out, "New: %d  Modified: %d  Upserted: %d  Rejected: %d  Errors: %d  Elapsed: %s\n",
		r.NewFiles, r.ModifiedFiles, s.upserted, s.rejected, len(r.Errors), r.Elapsed.Round(time.Millisecond))
	if len(r.ByBrand) > 0 {
		parts := make([]string, 0, len(r.ByBrand))
		for brand, count := range r.ByBrand {
			parts = append(parts, fmt.Sprintf("%s=%d", brand, count))
		}
		sort.Strings(parts)
		fmt.Fprintf(out, "Brands: %s\n", strings.Join(parts, " "))
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
