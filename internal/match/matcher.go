// Package match links archive assets to streaming-catalog entries. A pass is
// a full refresh: it recomputes every link from the current store contents
// and commits the result in one transaction.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"curator/internal/daylabel"
	"curator/internal/inventory"
	"curator/internal/logging"
	"curator/internal/textutil"
)

const (
	// Combined-score weights for the event+day strategy.
	dayWeight   = 0.6
	titleWeight = 0.4

	// minDayAgreement is the floor for the title-similarity strategy: the
	// day labels must agree at least as two spellings of the same day.
	minDayAgreement = 0.8
)

// Matcher computes asset/catalog links from store contents.
type Matcher struct {
	store  *inventory.Store
	logger *slog.Logger

	minConfidence       float64
	similarityThreshold float64
}

// Options tunes a matcher pass. Zero values fall back to the standard
// thresholds.
type Options struct {
	MinConfidence       float64
	SimilarityThreshold float64
}

// Summary reports what a pass produced.
type Summary struct {
	TotalAssets   int
	Matched       int
	Unmatched     int
	SkippedNoYear int
	ByType        map[inventory.MatchType]int
}

// New builds a Matcher. The logger may be nil.
func New(store *inventory.Store, logger *slog.Logger, opts Options) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.5
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = 0.7
	}
	return &Matcher{
		store:               store,
		logger:              logging.WithComponent(logger, "matcher"),
		minConfidence:       opts.MinConfidence,
		similarityThreshold: opts.SimilarityThreshold,
	}
}

// Run executes one full matching pass. Assets are visited in asset_uuid
// order; a catalog entry taken by an earlier asset is not offered again, so
// the outcome is reproducible for fixed inputs.
func (m *Matcher) Run(ctx context.Context) (*Summary, error) {
	assets, err := m.store.ListAssets(ctx, inventory.AssetFilter{})
	if err != nil {
		return nil, err
	}
	videos, err := m.store.ListCatalogVideos(ctx, inventory.CatalogFilter{})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalAssets: len(assets),
		ByType:      make(map[inventory.MatchType]int),
	}
	taken := make(map[string]struct{}, len(videos))
	var matches []inventory.Match

	for _, asset := range assets {
		if asset.Year == 0 {
			summary.SkippedNoYear++
			summary.Unmatched++
			continue
		}
		best, ok := m.bestCandidate(asset, videos, taken)
		if !ok {
			summary.Unmatched++
			continue
		}
		taken[best.VideoID] = struct{}{}
		matches = append(matches, best)
		summary.Matched++
		summary.ByType[best.MatchType]++
	}

	if err := m.store.ReplaceMatches(ctx, matches); err != nil {
		return nil, err
	}
	m.logger.Info("matching pass complete",
		logging.Int("assets", summary.TotalAssets),
		logging.Int("matched", summary.Matched),
		logging.Int("unmatched", summary.Unmatched))
	return summary, nil
}

// bestCandidate scores every free catalog entry against the asset and keeps
// the highest score at or above the confidence floor. Candidates arrive in
// video_id order, so keeping only strictly better scores breaks ties toward
// the lower id.
func (m *Matcher) bestCandidate(asset inventory.Asset, videos []inventory.CatalogVideo, taken map[string]struct{}) (inventory.Match, bool) {
	assetTitle := textutil.NormalizeTitle(assetStem(asset))

	var (
		best      inventory.Match
		bestScore float64
	)
	for _, video := range videos {
		if _, used := taken[video.VideoID]; used {
			continue
		}
		if video.Year != asset.Year || !asset.Brand.Compatible(video.Brand) {
			continue
		}
		score, matchType, reason := m.score(asset, assetTitle, video)
		if score > bestScore {
			bestScore = score
			best = inventory.Match{
				AssetUUID:  asset.UUID,
				VideoID:    video.VideoID,
				MatchType:  matchType,
				Confidence: score,
				Reason:     reason,
			}
		}
	}
	if bestScore < m.minConfidence {
		return inventory.Match{}, false
	}
	return best, true
}

func (m *Matcher) score(asset inventory.Asset, assetTitle string, video inventory.CatalogVideo) (float64, inventory.MatchType, string) {
	videoTitle := textutil.NormalizeTitle(video.Title)

	if asset.EventNumber != 0 {
		if video.EventNumber != asset.EventNumber {
			return 0, "", ""
		}
		dayScore := daylabel.Score(asset.DayLabel, video.DayLabel)
		titleScore := textutil.SequenceRatio(assetTitle, videoTitle)
		score := dayWeight*dayScore + titleWeight*titleScore
		reason := fmt.Sprintf("event %d day %.2f title %.2f", asset.EventNumber, dayScore, titleScore)
		return score, inventory.MatchEventDay, reason
	}

	// Without an event number only Main Event coverage is comparable by
	// title alone.
	if !strings.Contains(assetTitle, "main event") || !strings.Contains(videoTitle, "main event") {
		return 0, "", ""
	}
	similarity := textutil.SequenceRatio(assetTitle, videoTitle)
	if similarity < m.similarityThreshold {
		return 0, "", ""
	}
	if daylabel.Score(asset.DayLabel, video.DayLabel) < minDayAgreement {
		return 0, "", ""
	}
	reason := fmt.Sprintf("main event title %.2f day %q", similarity, asset.DayLabel)
	return similarity, inventory.MatchTitleSimilarity, reason
}

// assetStem is the comparable text on the asset side: the filename without
// its container extension.
func assetStem(asset inventory.Asset) string {
	return strings.TrimSuffix(asset.FileName, filepath.Ext(asset.FileName))
}
