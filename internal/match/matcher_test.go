package match_test

import (
	"context"
	"testing"

	"curator/internal/inventory"
	"curator/internal/match"
	"curator/internal/testsupport"
)

func newMatcher(t *testing.T) (*inventory.Store, *match.Matcher) {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	return store, match.New(store, nil, match.Options{})
}

func eventAsset(uuid, name string, eventNumber int, day string) inventory.Asset {
	a := testsupport.NewAsset(uuid, "/archive/WSOP/"+name)
	a.FileName = name
	a.Brand = inventory.BrandWSOP
	a.Year = 2024
	a.EventNumber = eventNumber
	a.DayLabel = day
	return a
}

func TestEventDayMatch(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, eventAsset("uuid-1", "WSOP 2024 Event 13 Final Table.mp4", 13, "FINAL"))
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOP 2024 Event #13 Final Table", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 13, DayLabel: "FINAL"},
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := matcher.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Matched != 1 {
		t.Fatalf("expected one match, got %+v", summary)
	}

	matches, err := store.ListMatches(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match row, got %d", len(matches))
	}
	m := matches[0]
	if m.MatchType != inventory.MatchEventDay {
		t.Errorf("match type = %v", m.MatchType)
	}
	if m.Confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", m.Confidence)
	}

	asset, _ := store.GetAsset(ctx, "uuid-1")
	video, _ := store.GetCatalogVideo(ctx, "vid-1")
	if !asset.PokerGoMatched || !video.NASMatched {
		t.Error("both flags should be set after the pass")
	}
}

func TestFinalCandidateWinsForFinalAsset(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, eventAsset("uuid-1", "WSOP 2024 Event 13 Final Table.mp4", 13, "FINAL"))
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-day1", Title: "WSOP 2024 Event #13 Day 1", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 13, DayLabel: "Day 1"},
		{VideoID: "vid-final", Title: "WSOP 2024 Event #13 Final Table", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 13, DayLabel: "FINAL"},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := matcher.Run(ctx); err != nil {
		t.Fatal(err)
	}
	matches, _ := store.ListMatches(ctx)
	if len(matches) != 1 || matches[0].VideoID != "vid-final" {
		t.Fatalf("expected the FINAL candidate to win, got %+v", matches)
	}
}

func TestWSOPFamilyCompatibility(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	a := eventAsset("uuid-1", "WSOPE 2024 BE 3.mp4", 3, "FINAL")
	a.Brand = inventory.BrandWSOPE
	testsupport.MustUpsertAsset(t, store, a)
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOPE 2024 Event #3 Final Table", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 3, DayLabel: "FINAL"},
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := matcher.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Matched != 1 {
		t.Fatalf("WSOP-family brands should be compatible: %+v", summary)
	}
}

func TestBrandMismatchSkipped(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	a := eventAsset("uuid-1", "HCL 2024 clip.mp4", 13, "FINAL")
	a.Brand = inventory.BrandHCL
	testsupport.MustUpsertAsset(t, store, a)
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOP 2024 Event #13 Final Table", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 13, DayLabel: "FINAL"},
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := matcher.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Matched != 0 || summary.Unmatched != 1 {
		t.Fatalf("HCL must not take WSOP catalog entries: %+v", summary)
	}
}

func TestNullYearSkipped(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	a := testsupport.NewAsset("uuid-1", "/archive/unknown.mp4")
	a.Year = 0
	testsupport.MustUpsertAsset(t, store, a)

	summary, err := matcher.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.SkippedNoYear != 1 || summary.Matched != 0 {
		t.Fatalf("null-year assets are unmatched by definition: %+v", summary)
	}
}

func TestCatalogEntryTakenOnce(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	// Two assets compete for a single catalog entry; asset_uuid order
	// decides the winner.
	testsupport.MustUpsertAsset(t, store, eventAsset("uuid-a", "WSOP 2024 Event 13 Final Table.mp4", 13, "FINAL"))
	testsupport.MustUpsertAsset(t, store, eventAsset("uuid-b", "WSOP 2024 Event 13 Final Table copy.mp4", 13, "FINAL"))
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOP 2024 Event #13 Final Table", Brand: inventory.BrandWSOP,
			Year: 2024, EventNumber: 13, DayLabel: "FINAL"},
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := matcher.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Matched != 1 || summary.Unmatched != 1 {
		t.Fatalf("a catalog entry links to at most one asset: %+v", summary)
	}
	matches, _ := store.ListMatches(ctx)
	if len(matches) != 1 || matches[0].AssetUUID != "uuid-a" {
		t.Fatalf("first writer in asset_uuid order should win, got %+v", matches)
	}
}

func TestMainEventTitleSimilarity(t *testing.T) {
	store, matcher := newMatcher(t)
	ctx := context.Background()

	a := eventAsset("uuid-1", "WSOP 2024 Main Event Day 3.mp4", 0, "Day 3")
	testsupport.MustUpsertAsset(t, store, a)
	if _, err := store.UpsertCatalogVideos(ctx, []inventory.CatalogVideo{
		{VideoID: "vid-1", Title: "WSOP 2024 Main Event Day 3", Brand: inventory.BrandWSOP,
			Year: 2024, DayLabel: "Day 3"},
		{VideoID: "vid-2", Title: "Completely different cash game show", Brand: inventory.BrandWSOP,
			Year: 2024},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := matcher.Run(ctx); err != nil {
		t.Fatal(err)
	}
	matches, _ := store.ListMatches(ctx)
	if len(matches) != 1 || matches[0].VideoID != "vid-1" {
		t.Fatalf("expected a title-similarity match, got %+v", matches)
	}
	if matches[0].MatchType != inventory.MatchTitleSimilarity {
		t.Errorf("match type = %v", matches[0].MatchType)
	}
	if matches[0].Confidence < 0.7 {
		t.Errorf("confidence = %v", matches[0].Confidence)
	}
}
