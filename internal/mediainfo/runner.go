package mediainfo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"curator/internal/config"
	"curator/internal/inventory"
	"curator/internal/logging"
)

// Runner probes every asset that still lacks a tech spec and records the
// pass in scan history.
type Runner struct {
	store   *inventory.Store
	probe   *Probe
	logger  *slog.Logger
	workers int
}

// Summary reports one probe pass.
type Summary struct {
	Probed int
	Failed int
	Errors []string
}

// NewRunner builds a Runner from the mediainfo configuration. The logger may
// be nil.
func NewRunner(store *inventory.Store, cfg config.MediaInfo, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Runner{
		store:   store,
		probe:   NewProbe(cfg),
		logger:  logging.WithComponent(logger, "mediainfo"),
		workers: workers,
	}
}

// Run probes up to limit assets missing a tech spec (zero means all).
// Individual probe failures are collected; only store-level errors abort the
// pass and mark its history row failed.
func (r *Runner) Run(ctx context.Context, limit int) (*Summary, error) {
	assets, err := r.store.AssetsMissingTechSpec(ctx, limit)
	if err != nil {
		return nil, err
	}

	scan, err := r.store.StartScan(ctx, inventory.ScanMediaInfo, "", fmt.Sprintf(`{"workers":%d}`, r.workers))
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for _, asset := range assets {
		asset := asset
		group.Go(func() error {
			spec, probeErr := r.probe.Inspect(groupCtx, asset.FilePath)
			if probeErr != nil {
				r.logger.Warn("probe failed",
					logging.String(logging.FieldPath, asset.FilePath),
					logging.Error(probeErr))
				mu.Lock()
				summary.Failed++
				summary.Errors = append(summary.Errors, probeErr.Error())
				mu.Unlock()
				return nil
			}
			if err := r.store.UpdateTechSpec(groupCtx, asset.UUID, *spec); err != nil {
				return err
			}
			mu.Lock()
			summary.Probed++
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		if failErr := r.store.FailScan(ctx, scan.ID, err.Error()); failErr != nil {
			r.logger.Error("mark scan failed", logging.Error(failErr))
		}
		return summary, err
	}

	if err := r.store.CompleteScan(ctx, scan.ID, len(assets), summary.Probed, 0, summary.Errors); err != nil {
		return summary, err
	}
	r.logger.Info("probe pass complete",
		logging.Int("probed", summary.Probed),
		logging.Int("failed", summary.Failed))
	return summary, nil
}
