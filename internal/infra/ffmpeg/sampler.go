package ffmpeg

import (
	"context"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// Sampler decodes an evenly strided subset of a video's frames. Any
// probe, decode, or filesystem failure is reported as an empty sample:
// downstream analyzers treat zero frames as a valid degenerate input.
type Sampler struct {
	prober  *Prober
	tempDir string
	logger  *zap.Logger
}

func NewSampler(prober *Prober, tempDir string, logger *zap.Logger) *Sampler {
	return &Sampler{prober: prober, tempDir: tempDir, logger: logger}
}

func (s *Sampler) Sample(ctx context.Context, videoPath string, maxFrames int) []vision.Frame {
	if maxFrames <= 0 {
		s.logger.Warn("non-positive frame cap", zap.Int("max_frames", maxFrames))
		return nil
	}

	info, err := s.prober.Probe(ctx, videoPath)
	if err != nil {
		s.logger.Warn("unreadable video, sampling nothing",
			zap.String("video", videoPath),
			zap.Error(err),
		)
		return nil
	}
	stride := strideFor(info.TotalFrames, maxFrames)

	workDir, err := os.MkdirTemp(s.tempDir, "sample-*")
	if err != nil {
		s.logger.Warn("create sample dir", zap.Error(err))
		return nil
	}
	defer os.RemoveAll(workDir)

	pattern := filepath.Join(workDir, "frame_%05d.png")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", stride),
		"-vsync", "vfr",
		"-frames:v", strconv.Itoa(maxFrames),
		"-y", pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		s.logger.Warn("ffmpeg decode failed, sampling nothing",
			zap.String("video", videoPath),
			zap.Error(err),
			zap.String("output", string(output)),
		)
		return nil
	}

	paths, err := filepath.Glob(filepath.Join(workDir, "frame_*.png"))
	if err != nil {
		s.logger.Warn("glob sampled frames", zap.Error(err))
		return nil
	}
	sort.Strings(paths)

	frames := make([]vision.Frame, 0, len(paths))
	for _, p := range paths {
		frame, err := decodeFrameFile(p, len(frames))
		if err != nil {
			s.logger.Warn("skip undecodable frame", zap.String("path", p), zap.Error(err))
			continue
		}
		frames = append(frames, frame)
	}

	s.logger.Debug("frames sampled",
		zap.String("video", videoPath),
		zap.Int("total_frames", info.TotalFrames),
		zap.Int("stride", stride),
		zap.Int("sampled", len(frames)),
	)
	return frames
}

// ExportFrames re-extracts the source frames behind sampled indices as
// PNG files in outputDir, using the same stride plan as Sample.
func (s *Sampler) ExportFrames(ctx context.Context, videoPath string, sampleIdx []int, maxFrames int, outputDir string) ([]string, error) {
	if len(sampleIdx) == 0 {
		return nil, nil
	}
	info, err := s.prober.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe for export: %w", err)
	}
	stride := strideFor(info.TotalFrames, maxFrames)

	terms := make([]string, 0, len(sampleIdx))
	for _, idx := range sampleIdx {
		terms = append(terms, fmt.Sprintf("eq(n\\,%d)", idx*stride))
	}
	pattern := filepath.Join(outputDir, "evidence_%03d.png")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", "select="+strings.Join(terms, "+"),
		"-vsync", "vfr",
		"-frames:v", strconv.Itoa(len(sampleIdx)),
		"-y", pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg export: %w, output: %s", err, string(output))
	}

	paths, err := filepath.Glob(filepath.Join(outputDir, "evidence_*.png"))
	if err != nil {
		return nil, fmt.Errorf("glob evidence frames: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// strideFor keeps every strideth frame so at most maxFrames survive.
func strideFor(totalFrames, maxFrames int) int {
	if maxFrames <= 0 {
		return 1
	}
	stride := totalFrames / maxFrames
	if stride < 1 {
		return 1
	}
	return stride
}

func decodeFrameFile(path string, index int) (vision.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return vision.Frame{}, err
	}
	defer f.Close()
	return vision.DecodeFrame(f, index)
}
