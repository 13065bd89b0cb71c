package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"curator/internal/inventory"
	"curator/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	asset := testsupport.NewAsset("uuid-1", "/archive/WSOP/a.mp4")
	rejected, err := store.UpsertAssets(ctx, []inventory.Asset{asset})
	if err != nil {
		t.Fatalf("UpsertAssets: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}

	fetched, err := store.GetAsset(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if fetched.FilePath != "/archive/WSOP/a.mp4" || fetched.Brand != inventory.BrandWSOP {
		t.Fatalf("unexpected asset: %+v", fetched)
	}
}

func TestUpsertAssetsRejectsInvalidRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	good := testsupport.NewAsset("uuid-good", "/archive/good.mp4")
	bad := testsupport.NewAsset("uuid-bad", "/archive/bad.mp4")
	bad.Year = 1800

	rejected, err := store.UpsertAssets(ctx, []inventory.Asset{good, bad})
	if err != nil {
		t.Fatalf("UpsertAssets: %v", err)
	}
	if len(rejected) != 1 || rejected[0].Key != "/archive/bad.mp4" {
		t.Fatalf("expected one rejection for bad row, got %v", rejected)
	}

	if _, err := store.GetAsset(ctx, "uuid-good"); err != nil {
		t.Fatalf("good row should persist: %v", err)
	}
	if _, err := store.GetAsset(ctx, "uuid-bad"); err == nil {
		t.Fatal("bad row should not persist")
	}
}

func TestUpsertAssetsIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	asset := testsupport.NewAsset("uuid-1", "/archive/a.mp4")
	testsupport.MustUpsertAsset(t, store, asset)

	asset.Episode = 7
	testsupport.MustUpsertAsset(t, store, asset)

	assets, err := store.ListAssets(ctx, inventory.AssetFilter{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected a single row after re-upsert, got %d", len(assets))
	}
	if assets[0].Episode != 7 {
		t.Fatalf("expected updated episode, got %d", assets[0].Episode)
	}
}

func TestSegmentUpsertAndOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-1", "/archive/a.mp4"))

	segments := []inventory.Segment{
		{ParentAssetUUID: "uuid-1", RowNumber: 2, TimeInSec: 300, TimeOutSec: 360, SegmentType: "HAND",
			ActionTags: []string{"bluff", "hero-call"}},
		{ParentAssetUUID: "uuid-1", RowNumber: 1, TimeInSec: 10, TimeOutSec: 95, SegmentType: "HAND"},
		{ParentAssetUUID: "uuid-1", RowNumber: 3, TimeInSec: 50, TimeOutSec: 40, SegmentType: "HAND"},
	}
	rejected, err := store.UpsertSegments(ctx, segments)
	if err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected the inverted range to be rejected, got %v", rejected)
	}

	stored, err := store.ListSegments(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("ListSegments: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(stored))
	}
	if stored[0].RowNumber != 1 || stored[1].RowNumber != 2 {
		t.Fatalf("expected time_in ordering, got rows %d, %d", stored[0].RowNumber, stored[1].RowNumber)
	}
	if !stored[1].Bluff || !stored[1].HeroCall {
		t.Fatalf("expected situation flags derived from tags: %+v", stored[1])
	}
	if stored[1].Cooler {
		t.Fatal("cooler flag should not be set")
	}
}

func TestSegmentRequiresExistingParent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rejected, err := store.UpsertSegments(ctx, []inventory.Segment{
		{ParentAssetUUID: "ghost", RowNumber: 1, TimeInSec: 0, TimeOutSec: 10, SegmentType: "HAND"},
	})
	if err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected orphan segment rejection, got %v", rejected)
	}
}

func TestReplaceMatchesKeepsFlagsSymmetric(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-1", "/archive/a.mp4"))
	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-2", "/archive/b.mp4"))
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOP 2024 Event #13 Final Table", Brand: inventory.BrandWSOP, Year: 2024},
		{VideoID: "vid-2", Title: "WSOP 2024 Event #14 Day 1", Brand: inventory.BrandWSOP, Year: 2024},
	}); err != nil {
		t.Fatalf("UpsertCatalogVideos: %v", err)
	}

	err := store.ReplaceMatches(ctx, []inventory.Match{
		{AssetUUID: "uuid-1", VideoID: "vid-1", MatchType: inventory.MatchEventDay, Confidence: 0.95},
	})
	if err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	a1, _ := store.GetAsset(ctx, "uuid-1")
	a2, _ := store.GetAsset(ctx, "uuid-2")
	v1, _ := store.GetCatalogVideo(ctx, "vid-1")
	v2, _ := store.GetCatalogVideo(ctx, "vid-2")
	if !a1.PokerGoMatched || a2.PokerGoMatched {
		t.Fatalf("asset flags wrong: %v %v", a1.PokerGoMatched, a2.PokerGoMatched)
	}
	if !v1.NASMatched || v2.NASMatched {
		t.Fatalf("catalog flags wrong: %v %v", v1.NASMatched, v2.NASMatched)
	}

	// A second refresh with no matches clears everything.
	if err := store.ReplaceMatches(ctx, nil); err != nil {
		t.Fatalf("ReplaceMatches(nil): %v", err)
	}
	a1, _ = store.GetAsset(ctx, "uuid-1")
	v1, _ = store.GetCatalogVideo(ctx, "vid-1")
	if a1.PokerGoMatched || v1.NASMatched {
		t.Fatal("flags should reset on refresh")
	}
	matches, err := store.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty matches, got %d", len(matches))
	}
}

func TestReplaceMatchesRejectsInvalidConfidence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	err := store.ReplaceMatches(context.Background(), []inventory.Match{
		{AssetUUID: "a", VideoID: "v", MatchType: inventory.MatchEventDay, Confidence: 1.5},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteAssetsBySourceCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	asset := testsupport.NewAsset("uuid-1", "/archive/a.mp4")
	asset.SourceOrigin = "nas"
	testsupport.MustUpsertAsset(t, store, asset)
	other := testsupport.NewAsset("uuid-2", "/vault/b.mp4")
	other.SourceOrigin = "vault"
	testsupport.MustUpsertAsset(t, store, other)

	if _, err := store.UpsertSegments(ctx, []inventory.Segment{
		{ParentAssetUUID: "uuid-1", RowNumber: 1, TimeInSec: 0, TimeOutSec: 5, SegmentType: "HAND"},
	}); err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}

	deleted, err := store.DeleteAssetsBySource(ctx, "nas")
	if err != nil {
		t.Fatalf("DeleteAssetsBySource: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted asset, got %d", deleted)
	}
	segments, err := store.ListSegments(ctx, "uuid-1")
	if err != nil {
		t.Fatalf("ListSegments: %v", err)
	}
	if len(segments) != 0 {
		t.Fatal("segments should cascade with their asset")
	}
	if _, err := store.GetAsset(ctx, "uuid-2"); err != nil {
		t.Fatalf("other source origin should survive: %v", err)
	}
}

func TestScanHistoryWatermark(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.LatestCompletedScan(ctx); err == nil {
		t.Fatal("expected ErrNotFound with empty history")
	}

	first, err := store.StartScan(ctx, inventory.ScanFull, "/archive", "")
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	if err := store.CompleteScan(ctx, first.ID, 10, 10, 0, []string{"probe timeout: /archive/x.mp4"}); err != nil {
		t.Fatalf("CompleteScan: %v", err)
	}

	second, err := store.StartScan(ctx, inventory.ScanIncremental, "/archive", "")
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	if err := store.FailScan(ctx, second.ID, "database is locked"); err != nil {
		t.Fatalf("FailScan: %v", err)
	}

	latest, err := store.LatestCompletedScan(ctx)
	if err != nil {
		t.Fatalf("LatestCompletedScan: %v", err)
	}
	if latest.ID != first.ID {
		t.Fatalf("failed scan must not advance the watermark: got id %d", latest.ID)
	}
	if len(latest.Errors) != 1 {
		t.Fatalf("expected recorded row error, got %v", latest.Errors)
	}
}

func TestGetAssetByPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	asset := testsupport.NewAsset("uuid-a", "/archive/WSOP/stream.mp4")
	testsupport.MustUpsertAsset(t, store, asset)

	got, err := store.GetAssetByPath(ctx, "/archive/WSOP/stream.mp4")
	if err != nil {
		t.Fatalf("GetAssetByPath: %v", err)
	}
	if got.UUID != "uuid-a" {
		t.Fatalf("expected uuid-a, got %s", got.UUID)
	}
	if _, err := store.GetAssetByPath(ctx, "/archive/missing.mp4"); err == nil {
		t.Fatal("expected ErrNotFound for unknown path")
	}
}

func TestListScansNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.StartScan(ctx, inventory.ScanFull, "/archive", "")
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	if err := store.CompleteScan(ctx, first.ID, 5, 5, 0, nil); err != nil {
		t.Fatalf("CompleteScan: %v", err)
	}
	second, err := store.StartScan(ctx, inventory.ScanIncremental, "/archive", "")
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	if err := store.FailScan(ctx, second.ID, "database is locked"); err != nil {
		t.Fatalf("FailScan: %v", err)
	}

	scans, err := store.ListScans(ctx, 0)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(scans))
	}
	if scans[0].ID != second.ID {
		t.Fatalf("expected newest scan first, got id %d", scans[0].ID)
	}
	limited, err := store.ListScans(ctx, 1)
	if err != nil {
		t.Fatalf("ListScans limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 scan with limit, got %d", len(limited))
	}
}

func TestKnownPathsFiltersBySource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		asset := testsupport.NewAsset(fmt.Sprintf("uuid-%d", i), fmt.Sprintf("/archive/f%d.mp4", i))
		testsupport.MustUpsertAsset(t, store, asset)
	}
	paths, err := store.KnownPaths(ctx, "nas")
	if err != nil {
		t.Fatalf("KnownPaths: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 known paths, got %d", len(paths))
	}
	if _, ok := paths["/archive/f1.mp4"]; !ok {
		t.Fatal("missing expected path")
	}
}

func TestCoverage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.NewAsset("uuid-1", "/archive/a.mp4")
	b := testsupport.NewAsset("uuid-2", "/archive/b.mp4")
	b.Brand = inventory.BrandHCL
	testsupport.MustUpsertAsset(t, store, a)
	testsupport.MustUpsertAsset(t, store, b)
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "t", Brand: inventory.BrandWSOP, Year: 2024},
	}); err != nil {
		t.Fatalf("UpsertCatalogVideos: %v", err)
	}
	if err := store.ReplaceMatches(ctx, []inventory.Match{
		{AssetUUID: "uuid-1", VideoID: "vid-1", MatchType: inventory.MatchEventDay, Confidence: 0.9},
	}); err != nil {
		t.Fatalf("ReplaceMatches: %v", err)
	}

	coverage, err := store.Coverage(ctx)
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if len(coverage) != 2 {
		t.Fatalf("expected 2 coverage rows, got %d", len(coverage))
	}
	for _, row := range coverage {
		switch row.Brand {
		case inventory.BrandWSOP:
			if row.Total != 1 || row.Matched != 1 {
				t.Fatalf("WSOP coverage wrong: %+v", row)
			}
		case inventory.BrandHCL:
			if row.Total != 1 || row.Matched != 0 {
				t.Fatalf("HCL coverage wrong: %+v", row)
			}
		}
	}
}

func TestAcquireWriteLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	release, err := store.AcquireWriteLock()
	if err != nil {
		t.Fatalf("AcquireWriteLock: %v", err)
	}
	defer release()

	second := testsupport.MustOpenStore(t, cfg)
	if _, err := second.AcquireWriteLock(); err == nil {
		t.Fatal("expected second writer to be refused")
	}
}
