package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/inventory"
	"curator/internal/testsupport"
)

func collect(t *testing.T, root string, opts Options) ([]FileRecord, *Result) {
	t.Helper()
	var records []FileRecord
	result, err := Walk(context.Background(), root, opts, func(r FileRecord) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return records, result
}

func TestWalkEmptyTree(t *testing.T) {
	records, result := collect(t, t.TempDir(), Options{})
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if result.TotalFiles != 0 || result.FoldersScanned != 1 {
		t.Fatalf("unexpected stats: %+v", result)
	}
}

func TestWalkVideoOnlyAndStats(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "WSOP", "Streams", "WSOP 2024 Event 13 Day 2.mp4"), 2048)
	testsupport.WriteFile(t, filepath.Join(root, "WSOP", "Streams", "notes.txt"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "HCL", "clip.MOV"), 1024)

	records, result := collect(t, root, Options{VideoOnly: true})
	if len(records) != 2 {
		t.Fatalf("expected 2 video records, got %d", len(records))
	}
	if result.VideoFiles != 2 || result.OtherFiles != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.ByExtension[".mp4"] != 1 || result.ByExtension[".mov"] != 1 {
		t.Fatalf("extension counts wrong: %v", result.ByExtension)
	}
	if result.TotalSizeBytes != 3072 {
		t.Fatalf("size total wrong: %d", result.TotalSizeBytes)
	}
	if result.ByBrand[inventory.BrandWSOP] != 1 || result.ByBrand[inventory.BrandHCL] != 1 {
		t.Fatalf("brand counts wrong: %v", result.ByBrand)
	}
}

func TestWalkFolderInference(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root,
		"wsop/streams/a.mp4",
		"Hustler Casino Live/Hand Clips/b.mp4",
		"misc/c.mp4",
		"WSOPE/Masters/nested/Circuit/confusing.mxf",
	)

	records, _ := collect(t, root, Options{VideoOnly: true})
	byName := map[string]FileRecord{}
	for _, r := range records {
		byName[r.FileName] = r
	}

	if r := byName["a.mp4"]; r.InferredBrand != inventory.BrandWSOP || r.InferredAssetType != inventory.AssetStream {
		t.Errorf("a.mp4 inference wrong: %v %v", r.InferredBrand, r.InferredAssetType)
	}
	if r := byName["b.mp4"]; r.InferredBrand != inventory.BrandHCL || r.InferredAssetType != inventory.AssetHandClip {
		t.Errorf("b.mp4 inference wrong: %v %v", r.InferredBrand, r.InferredAssetType)
	}
	if r := byName["c.mp4"]; r.InferredBrand != "" || r.InferredAssetType != "" {
		t.Errorf("c.mp4 should have no inference: %v %v", r.InferredBrand, r.InferredAssetType)
	}
	// First hit wins walking down from the root.
	if r := byName["confusing.mxf"]; r.InferredBrand != inventory.BrandWSOPE || r.InferredAssetType != inventory.AssetMaster {
		t.Errorf("first-hit rule violated: %v %v", r.InferredBrand, r.InferredAssetType)
	}
}

func TestWalkHiddenEntries(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, ".stage/hidden.mp4", "._resource.mov", "visible.mp4")

	records, _ := collect(t, root, Options{})
	if len(records) != 1 || records[0].FileName != "visible.mp4" {
		t.Fatalf("hidden entries should be skipped: %v", records)
	}

	records, _ = collect(t, root, Options{IncludeHidden: true})
	if len(records) != 3 {
		t.Fatalf("expected hidden entries with IncludeHidden, got %d", len(records))
	}
}

func TestWalkMaxFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.mp4", "b.mp4", "c.mp4", "d.mp4")

	records, _ := collect(t, root, Options{MaxFiles: 2})
	if len(records) != 2 {
		t.Fatalf("expected walk to stop at 2 records, got %d", len(records))
	}
}

func TestWalkIncremental(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "old.mp4", "touched.mp4", "fresh.mp4")

	since := time.Now().Add(time.Hour)
	past := since.Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old.mp4"), past, past); err != nil {
		t.Fatal(err)
	}
	future := since.Add(time.Hour)
	if err := os.Chtimes(filepath.Join(root, "touched.mp4"), future, future); err != nil {
		t.Fatal(err)
	}

	known := map[string]struct{}{
		filepath.Join(root, "old.mp4"):     {},
		filepath.Join(root, "touched.mp4"): {},
	}
	records, result := collect(t, root, Options{Since: since, KnownPaths: known})
	if len(records) != 2 {
		t.Fatalf("expected fresh + touched, got %d records", len(records))
	}
	if result.NewFiles != 1 || result.ModifiedFiles != 1 {
		t.Fatalf("incremental counts wrong: new=%d modified=%d", result.NewFiles, result.ModifiedFiles)
	}
	for _, r := range records {
		if r.FileName == "old.mp4" {
			t.Fatal("unchanged known file must be skipped")
		}
		if r.FileName == "touched.mp4" && !r.Modified {
			t.Fatal("touched file should carry the modified flag")
		}
	}
}

func TestWalkComputeHash(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.mp4")

	records, _ := collect(t, root, Options{ComputeHash: true})
	if len(records) != 1 || len(records[0].ContentHash) != 64 {
		t.Fatalf("expected a hex sha256 fingerprint, got %q", records[0].ContentHash)
	}
}

func TestIsMediaExtension(t *testing.T) {
	if !IsMediaExtension(".MP4") || !IsMediaExtension(".mxf") {
		t.Error("known containers should match case-insensitively")
	}
	if IsMediaExtension(".txt") {
		t.Error(".txt is not a media extension")
	}
}
