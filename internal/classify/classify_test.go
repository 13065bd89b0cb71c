package classify

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/inventory"
	"curator/internal/scanner"
)

func record(path string) scanner.FileRecord {
	return scanner.FileRecord{
		Path:         path,
		FileName:     filepath.Base(path),
		Extension:    strings.ToLower(filepath.Ext(path)),
		RelativePath: strings.TrimPrefix(path, "/archive/"),
		FolderPath:   filepath.Dir(path),
		ModifiedAt:   time.Now(),
	}
}

func TestAssetUUIDDeterministic(t *testing.T) {
	a := AssetUUID("/Archive/WSOP/Clip.mp4")
	b := AssetUUID("/archive/wsop/clip.mp4")
	if a != b {
		t.Errorf("normalized paths must share an id: %s vs %s", a, b)
	}
	if a == AssetUUID("/archive/wsop/other.mp4") {
		t.Error("distinct paths must not collide")
	}
	if len(a) != 36 || a[14] != '4' {
		t.Errorf("expected version 4 framing, got %s", a)
	}
}

func TestClassifyDefaultStream(t *testing.T) {
	r := record("/archive/WSOP/STREAM/STREAM_01.mp4")
	r.InferredBrand = inventory.BrandWSOP
	r.InferredAssetType = inventory.AssetStream

	asset := Classify(r)
	if asset.Brand != inventory.BrandWSOP || asset.AssetType != inventory.AssetStream {
		t.Fatalf("folder inference not honored: %+v", asset)
	}
	if asset.ParseMethod != "default" {
		t.Fatalf("expected default parse, got %q", asset.ParseMethod)
	}
	if asset.Year != time.Now().Year() {
		t.Fatalf("default year should be current, got %d", asset.Year)
	}
	if asset.Confidence != 0.5 {
		t.Fatalf("default confidence should be 0.5, got %v", asset.Confidence)
	}
	if asset.EventType != inventory.EventMain {
		t.Fatalf("event type should default to ME, got %v", asset.EventType)
	}
}

func TestClassifyHCLYearEpisode(t *testing.T) {
	asset := Classify(record("/archive/HCL/HCL_2024_EP10.mp4"))
	if asset.Brand != inventory.BrandHCL {
		t.Fatalf("brand = %v", asset.Brand)
	}
	if asset.Year != 2024 || asset.Episode != 10 {
		t.Fatalf("year/episode = %d/%d", asset.Year, asset.Episode)
	}
	if asset.Confidence < 0.85 {
		t.Fatalf("confidence = %v", asset.Confidence)
	}
	if !strings.Contains(asset.ParseMethod, "hcl") {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
}

func TestClassifyPADDerivedYear(t *testing.T) {
	asset := Classify(record("/archive/PAD/PAD_S13_EP01.mp4"))
	if asset.Brand != inventory.BrandPAD || asset.Season != 13 || asset.Episode != 1 {
		t.Fatalf("unexpected parse: %+v", asset)
	}
	if asset.Year != 2023 {
		t.Fatalf("season 13 should derive year 2023, got %d", asset.Year)
	}
}

func TestClassifyBraceletEventMXF(t *testing.T) {
	asset := Classify(record("/archive/WSOP/WSOP-2025-ev-21.mxf"))
	if asset.ParseMethod != "bracelet_ev" {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
	if asset.Brand != inventory.BrandWSOP || asset.Year != 2025 {
		t.Fatalf("brand/year = %v/%d", asset.Brand, asset.Year)
	}
	if asset.EventType != inventory.EventBracelet || asset.EventNumber != 21 {
		t.Fatalf("event = %v #%d", asset.EventType, asset.EventNumber)
	}
	if asset.AssetType != inventory.AssetMXF {
		t.Fatalf("asset type should come from the container, got %v", asset.AssetType)
	}
}

func TestClassifyMXFEpisodeForm(t *testing.T) {
	asset := Classify(record("/archive/WSOP/WSOP-2011-07.mxf"))
	if asset.ParseMethod != "mxf_format" {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
	if asset.Year != 2011 || asset.Episode != 7 {
		t.Fatalf("year/episode = %d/%d", asset.Year, asset.Episode)
	}
}

func TestClassifyModernEventTitle(t *testing.T) {
	asset := Classify(record("/archive/WSOP/WSOP 2024 Event #13 Day 2.mp4"))
	if asset.ParseMethod != "wsop_2025_be" {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
	if asset.Year != 2024 || asset.EventNumber != 13 {
		t.Fatalf("year/event = %d/%d", asset.Year, asset.EventNumber)
	}
	if asset.EventType != inventory.EventBracelet {
		t.Fatalf("event type = %v", asset.EventType)
	}
}

func TestClassifyMasteredMov(t *testing.T) {
	asset := Classify(record("/archive/MOV/WSOP11_ME03_FINAL.mov"))
	if asset.ParseMethod != "mastered_mov" {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
	if asset.Year != 2011 || asset.Episode != 3 {
		t.Fatalf("year/episode = %d/%d", asset.Year, asset.Episode)
	}
	if asset.DayLabel != "FINAL" {
		t.Fatalf("day label = %q", asset.DayLabel)
	}
	if asset.AssetType != inventory.AssetMOV {
		t.Fatalf("asset type = %v", asset.AssetType)
	}
}

func TestClassifyBraceletModern(t *testing.T) {
	asset := Classify(record("/archive/WSOP/21-wsop-2023-be-ev-05.mp4"))
	if asset.ParseMethod != "bracelet_modern" {
		t.Fatalf("parse method = %q", asset.ParseMethod)
	}
	if asset.Year != 2023 || asset.EventNumber != 5 || asset.Episode != 21 {
		t.Fatalf("parse: %+v", asset)
	}
}

func TestClassifyFolderYearFallback(t *testing.T) {
	asset := Classify(record("/archive/WSOP/2019/Day 3/table_cam.mp4"))
	if asset.Year != 2019 {
		t.Fatalf("year from folder expected, got %d", asset.Year)
	}
	if asset.DayLabel != "Day 3" {
		t.Fatalf("day from folder expected, got %q", asset.DayLabel)
	}
	if asset.Confidence > 0.8 {
		t.Fatalf("fallback must cap confidence, got %v", asset.Confidence)
	}
}

func TestClassifyKeywordEventType(t *testing.T) {
	asset := Classify(record("/archive/WSOP/bracelet_recap_raw.mp4"))
	if asset.EventType != inventory.EventBracelet {
		t.Fatalf("event type = %v", asset.EventType)
	}
	if asset.Confidence > 0.7 {
		t.Fatalf("keyword fallback must cap confidence, got %v", asset.Confidence)
	}
}

func TestClassifyTotality(t *testing.T) {
	inputs := []string{
		"",
		".",
		"....mp4",
		strings.Repeat("a", 4096) + ".mp4",
		"日本語ファイル.mov",
		"WSOP WSOP WSOP.mp4",
	}
	for _, name := range inputs {
		asset := Classify(record("/archive/" + name))
		if asset.Confidence < 0 || asset.Confidence > 1 {
			t.Errorf("%q: confidence out of range: %v", name, asset.Confidence)
		}
		if !asset.Brand.Valid() || !asset.AssetType.Valid() || !asset.EventType.Valid() {
			t.Errorf("%q: invalid enums in %+v", name, asset)
		}
		if asset.UUID == "" || asset.Year == 0 {
			t.Errorf("%q: required fields missing: %+v", name, asset)
		}
	}
}

func TestClassifyStableReparse(t *testing.T) {
	first := Classify(record("/archive/HCL/HCL_S02_EP05.mp4"))
	second := Classify(record("/archive/HCL/HCL_S02_EP05.mp4"))
	if first.Meta != second.Meta {
		t.Fatalf("grammar must be stable: %+v vs %+v", first.Meta, second.Meta)
	}
	if first.UUID != second.UUID {
		t.Fatal("identity must be stable")
	}
}
