package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
)

var (
	meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)
	maxVolumeRe  = regexp.MustCompile(`max_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)
)

// AudioProber measures program volume with ffmpeg's volumedetect
// filter.
type AudioProber struct{}

func NewAudioProber() *AudioProber {
	return &AudioProber{}
}

func (a *AudioProber) ProbeAudio(ctx context.Context, audioPath string) (*port.AudioStats, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-i", audioPath,
		"-vn",
		"-af", "volumedetect",
		"-f", "null", "-",
	)
	// volumedetect reports on stderr
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg volumedetect: %w, output: %s", err, string(output))
	}
	return parseVolumeDetect(string(output))
}

func parseVolumeDetect(output string) (*port.AudioStats, error) {
	mean := meanVolumeRe.FindStringSubmatch(output)
	max := maxVolumeRe.FindStringSubmatch(output)
	if mean == nil || max == nil {
		return nil, fmt.Errorf("no volumedetect measurements in output")
	}
	meanDB, err := strconv.ParseFloat(mean[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parse mean volume: %w", err)
	}
	maxDB, err := strconv.ParseFloat(max[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parse max volume: %w", err)
	}
	return &port.AudioStats{MeanVolumeDB: meanDB, MaxVolumeDB: maxDB}, nil
}
