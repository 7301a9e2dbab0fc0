package ingest

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata is the summary a probe extracts from stored footage.
type Metadata struct {
	FrameRate  float64 `json:"frame_rate"`
	FrameCount int     `json:"frame_count"`
}

// Probe extracts summary metadata from a stored video file.
type Probe interface {
	Inspect(ctx context.Context, path string) (Metadata, error)
}

// NewFFProbe looks up the ffprobe binary once and returns a probe backed by
// it. When the binary is absent it returns an unavailable probe that yields
// zero metadata, so footage can still be ingested on hosts without ffmpeg.
// The boolean reports whether ffprobe was found.
func NewFFProbe() (Probe, bool) {
	binary, err := exec.LookPath("ffprobe")
	if err != nil {
		return unavailableProbe{}, false
	}
	return &ffprobe{binary: binary}, true
}

type ffprobe struct {
	binary string
}

// Inspect shells out to ffprobe for the first video stream's average frame
// rate and packet count.
func (p *ffprobe) Inspect(ctx context.Context, path string) (Metadata, error) {
	output, err := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=avg_frame_rate,nb_read_packets",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(string(output))
}

// parseProbeOutput parses ffprobe's csv line, e.g. "30000/1001,360".
func parseProbeOutput(output string) (Metadata, error) {
	line := strings.TrimSpace(output)
	if line == "" {
		return Metadata{}, fmt.Errorf("ffprobe returned no video stream")
	}
	parts := strings.SplitN(line, ",", 2)

	metadata := Metadata{FrameRate: parseRational(parts[0])}
	if len(parts) == 2 {
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Metadata{}, fmt.Errorf("ffprobe frame count %q: %w", parts[1], err)
		}
		metadata.FrameCount = count
	}
	return metadata, nil
}

// parseRational converts ffprobe's fraction notation ("30000/1001") to a
// float. Malformed or zero-denominator fractions collapse to 0.
func parseRational(value string) float64 {
	value = strings.TrimSpace(value)
	num, den, found := strings.Cut(value, "/")
	if !found {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	numerator, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	denominator, err := strconv.ParseFloat(den, 64)
	if err != nil || denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// unavailableProbe stands in when no probe binary is installed. Ingestion
// proceeds with zero metadata.
type unavailableProbe struct{}

func (unavailableProbe) Inspect(context.Context, string) (Metadata, error) {
	return Metadata{}, nil
}
