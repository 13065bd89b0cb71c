package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/classify"
	"curator/internal/export"
	"curator/internal/mediainfo"
	"curator/internal/scanner"
	"curator/internal/services"
	"curator/internal/textutil"
)

// extract scans and classifies without touching the inventory database: the
// result goes straight to a JSON or JSONL file. Useful for feeding the
// dashboard from a machine that has the archive mounted but no store.
func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		format    string
		techSpec  bool
		allFiles  bool
		maxFiles  int
	)

	cmd := &cobra.Command{
		Use:   "extract [root]",
		Short: "Scan and classify to a JSON export without writing the database",
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
				return services.Wrap(services.ErrFatal, "extract", "stat root", root, err)
			}
			if format != "json" && format != "jsonl" {
				return services.Wrap(services.ErrInputShape, "extract", "format", fmt.Sprintf("unknown format %q", format), nil)
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Paths.ExportDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return services.Wrap(services.ErrIO, "extract", "create export dir", dir, err)
			}

			probe := mediainfo.NewProbe(cfg.MediaInfo)
			var exported []export.Asset
			result, err := scanner.Walk(cmd.Context(), root, scanner.Options{
				VideoOnly: !allFiles,
				MaxFiles:  maxFiles,
			}, func(record scanner.FileRecord) error {
				asset := classify.Classify(record)
				asset.SourceOrigin = cfg.Scanner.SourceOrigin
				if techSpec && record.IsVideo {
					if spec, probeErr := probe.Inspect(cmd.Context(), record.Path); probeErr == nil {
						asset.TechSpec = spec
					}
				}
				exported = append(exported, export.FromAsset(asset, nil))
				return nil
			})
			if err != nil {
				return err
			}

			name := fmt.Sprintf("inventory_%s_%s.%s",
				textutil.SanitizeToken(cfg.Scanner.SourceOrigin),
				time.Now().UTC().Format("20060102_150405"), format)
			target := filepath.Join(dir, name)
			f, err := os.Create(target)
			if err != nil {
				return services.Wrap(services.ErrIO, "extract", "create export file", target, err)
			}
			defer f.Close()

			if format == "jsonl" {
				err = export.WriteJSONL(f, exported)
			} else {
				err = export.WriteJSON(f, exported)
			}
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return services.Wrap(services.ErrIO, "extract", "close export file", target, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d assets (%d files scanned) to %s\n",
				len(exported), result.TotalFiles, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Export directory (defaults to the configured one)")
	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or jsonl")
	cmd.Flags().BoolVar(&techSpec, "tech-spec", false, "Probe each video for media attributes")
	cmd.Flags().BoolVar(&allFiles, "all-files", false, "Include non-video files")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Stop after N files (0 = no limit)")
	return cmd
}
