// Package mediainfo fills asset tech specs by probing files with an external
// ffprobe binary. Probes run in a bounded worker pool and commit per row, so
// a slow or broken file never blocks the rest of the pass.
package mediainfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/inventory"
	"curator/internal/services"
)

// ffprobe JSON payload, limited to the fields the tech spec needs.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

// Probe wraps the external binary with a per-call timeout.
type Probe struct {
	binary  string
	timeout time.Duration
}

// NewProbe builds a Probe from the mediainfo configuration.
func NewProbe(cfg config.MediaInfo) *Probe {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	binary := cfg.FFprobeBinary
	if binary == "" {
		binary = "ffprobe"
	}
	return &Probe{binary: binary, timeout: timeout}
}

// Inspect runs the probe against one file and converts the answer to a tech
// spec. The external process is killed when the timeout elapses.
func (p *Probe) Inspect(ctx context.Context, path string) (*inventory.TechSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, services.Wrap(services.ErrIO, "mediainfo", "probe", fmt.Sprintf("timeout after %s: %s", p.timeout, path), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "mediainfo", "probe", path, err)
	}

	var payload probeOutput
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, services.Wrap(services.ErrIO, "mediainfo", "probe", "decode output for "+path, err)
	}
	return specFromOutput(payload), nil
}

func specFromOutput(payload probeOutput) *inventory.TechSpec {
	spec := &inventory.TechSpec{}
	if d, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
		spec.DurationSec = d
	}
	if b, err := strconv.ParseInt(payload.Format.BitRate, 10, 64); err == nil {
		spec.BitRate = b
	}
	for _, stream := range payload.Streams {
		switch stream.CodecType {
		case "video":
			if spec.VideoCodec == "" {
				spec.VideoCodec = stream.CodecName
				spec.Width = stream.Width
				spec.Height = stream.Height
				spec.FPS = parseFrameRate(stream.RFrameRate)
				if spec.FPS == 0 {
					spec.FPS = parseFrameRate(stream.AvgFrameRate)
				}
			}
		case "audio":
			if spec.AudioCodec == "" {
				spec.AudioCodec = stream.CodecName
			}
		}
	}
	return spec
}

// parseFrameRate converts ffprobe's rational form ("30000/1001") to a float.
func parseFrameRate(raw string) float64 {
	if raw == "" || raw == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(raw, "/")
	if !found {
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n / d
}
