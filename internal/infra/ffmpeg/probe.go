package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
)

type Prober struct {
	logger *zap.Logger
}

func NewProber(logger *zap.Logger) *Prober {
	return &Prober{logger: logger}
}

func (p *Prober) Probe(ctx context.Context, videoPath string) (*port.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames,duration,r_frame_rate",
		"-show_entries", "format=duration:format_tags",
		"-of", "json",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}
	info, err := parseProbeOutput(output)
	if err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return info, nil
}

type probeStream struct {
	NbFrames   string `json:"nb_frames"`
	Duration   string `json:"duration"`
	RFrameRate string `json:"r_frame_rate"`
}

type probeFormat struct {
	Duration string            `json:"duration"`
	Tags     map[string]string `json:"tags"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

func parseProbeOutput(data []byte) (*port.MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if len(out.Streams) == 0 {
		return nil, fmt.Errorf("no video stream")
	}
	stream := out.Streams[0]

	info := &port.MediaInfo{Tags: map[string]string{}}
	for k, v := range out.Format.Tags {
		info.Tags[strings.ToLower(k)] = v
	}

	if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
		info.Duration = d
	} else if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	info.FrameRate = parseRate(stream.RFrameRate)

	if n, err := strconv.Atoi(stream.NbFrames); err == nil && n > 0 {
		info.TotalFrames = n
	} else if info.Duration > 0 && info.FrameRate > 0 {
		info.TotalFrames = int(math.Round(info.Duration * info.FrameRate))
	}
	return info, nil
}

// parseRate parses ffprobe fraction rates like "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		if r, err := strconv.ParseFloat(s, 64); err == nil {
			return r
		}
		return 0
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
