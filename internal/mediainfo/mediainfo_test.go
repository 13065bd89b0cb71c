package mediainfo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"curator/internal/config"
	"curator/internal/inventory"
	"curator/internal/mediainfo"
	"curator/internal/testsupport"
)

const probePayload = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
    {"codec_type": "audio", "codec_name": "aac"}
  ],
  "format": {"duration": "3600.500000", "bit_rate": "8000000"}
}`

// stubProbe writes a fake ffprobe that prints a canned payload.
func stubProbe(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectParsesOutput(t *testing.T) {
	binary := stubProbe(t, "#!/bin/sh\ncat <<'EOF'\n"+probePayload+"\nEOF\n")
	probe := mediainfo.NewProbe(config.MediaInfo{FFprobeBinary: binary, TimeoutSeconds: 5})

	spec, err := probe.Inspect(context.Background(), "/archive/a.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if spec.Width != 1920 || spec.Height != 1080 {
		t.Errorf("resolution = %dx%d", spec.Width, spec.Height)
	}
	if spec.VideoCodec != "h264" || spec.AudioCodec != "aac" {
		t.Errorf("codecs = %s/%s", spec.VideoCodec, spec.AudioCodec)
	}
	if spec.DurationSec != 3600.5 {
		t.Errorf("duration = %v", spec.DurationSec)
	}
	if spec.FPS < 29.9 || spec.FPS > 30.0 {
		t.Errorf("fps = %v", spec.FPS)
	}
	if spec.BitRate != 8000000 {
		t.Errorf("bitrate = %v", spec.BitRate)
	}
}

func TestInspectFailingBinary(t *testing.T) {
	binary := stubProbe(t, "#!/bin/sh\nexit 1\n")
	probe := mediainfo.NewProbe(config.MediaInfo{FFprobeBinary: binary, TimeoutSeconds: 5})

	if _, err := probe.Inspect(context.Background(), "/archive/a.mp4"); err == nil {
		t.Fatal("expected error from failing probe")
	}
}

func TestRunnerFillsMissingSpecs(t *testing.T) {
	binary := stubProbe(t, "#!/bin/sh\ncat <<'EOF'\n"+probePayload+"\nEOF\n")
	cfg := testsupport.NewConfig(t, testsupport.WithFFprobeBinary(binary))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-1", "/archive/a.mp4"))
	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-2", "/archive/b.mp4"))

	runner := mediainfo.NewRunner(store, cfg.MediaInfo, nil)
	summary, err := runner.Run(ctx, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Probed != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	asset, err := store.GetAsset(ctx, "uuid-1")
	if err != nil {
		t.Fatal(err)
	}
	if asset.TechSpec == nil || asset.TechSpec.VideoCodec != "h264" {
		t.Fatalf("tech spec not persisted: %+v", asset.TechSpec)
	}

	// A second pass has nothing left to probe.
	summary, err = runner.Run(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Probed != 0 {
		t.Fatalf("specs should stick, got %+v", summary)
	}

	scan, err := store.LatestCompletedScan(ctx, inventory.ScanMediaInfo)
	if err != nil {
		t.Fatalf("media_info scan history missing: %v", err)
	}
	if scan.ScanType != inventory.ScanMediaInfo {
		t.Fatalf("scan type = %v", scan.ScanType)
	}
}

func TestRunnerCollectsProbeFailures(t *testing.T) {
	binary := stubProbe(t, "#!/bin/sh\nexit 1\n")
	cfg := testsupport.NewConfig(t, testsupport.WithFFprobeBinary(binary))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustUpsertAsset(t, store, testsupport.NewAsset("uuid-1", "/archive/a.mp4"))

	runner := mediainfo.NewRunner(store, cfg.MediaInfo, nil)
	summary, err := runner.Run(ctx, 0)
	if err != nil {
		t.Fatalf("per-file failures must not abort the pass: %v", err)
	}
	if summary.Failed != 1 || len(summary.Errors) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	scan, err := store.LatestCompletedScan(ctx, inventory.ScanMediaInfo)
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Errors) != 1 {
		t.Fatalf("probe errors should land in scan history: %v", scan.Errors)
	}
}
