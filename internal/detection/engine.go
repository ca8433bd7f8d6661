package detection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// Engine runs the deepfake suite over one video. Frame signals fan out
// concurrently; fusion waits for all of them.
type Engine struct {
	sampler   port.FrameSampler
	detector  port.FaceDetector
	audio     port.AudioProber
	maxFrames int
	logger    *zap.Logger
}

func NewEngine(sampler port.FrameSampler, detector port.FaceDetector, audio port.AudioProber, maxFrames int, logger *zap.Logger) *Engine {
	return &Engine{
		sampler:   sampler,
		detector:  detector,
		audio:     audio,
		maxFrames: maxFrames,
		logger:    logger,
	}
}

// AnalyzeVideo scores the video at videoPath, with an optional
// separate audio stream. Failures are encoded in the returned result's
// classification; the method never returns an error and never panics
// across this boundary.
func (e *Engine) AnalyzeVideo(ctx context.Context, videoPath, audioPath string) (result *entity.DeepfakeResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("deepfake analysis panicked",
				zap.String("video", videoPath),
				zap.Any("panic", r),
			)
			result = errorResult(fmt.Sprintf("internal failure: %v", r), start)
		}
	}()

	frames := e.sampler.Sample(ctx, videoPath, e.maxFrames)
	if err := ctx.Err(); err != nil {
		return errorResult("analysis abandoned: "+err.Error(), start)
	}
	if len(frames) == 0 {
		e.logger.Warn("no frames sampled, scoring on degenerate reports",
			zap.String("video", videoPath))
	}

	analyzers := []struct {
		name string
		run  func([]vision.Frame) entity.SignalReport
	}{
		{SignalFaceConsistency, func(f []vision.Frame) entity.SignalReport {
			return AnalyzeFaceConsistency(f, e.detector)
		}},
		{SignalLightingConsistency, AnalyzeLightingConsistency},
		{SignalCompressionArtifacts, AnalyzeCompressionArtifacts},
		{SignalTemporalConsistency, AnalyzeTemporalConsistency},
	}

	indicators := make(map[string]entity.SignalReport, len(analyzers)+1)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, a := range analyzers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.Warn("signal analyzer panicked, omitting its report",
						zap.String("signal", a.name),
						zap.Any("panic", r),
					)
				}
			}()
			report := a.run(frames)
			mu.Lock()
			indicators[a.name] = report
			mu.Unlock()
		}()
	}

	if audioPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report := e.audioReport(ctx, audioPath)
			mu.Lock()
			indicators[SignalAudioManipulation] = report
			mu.Unlock()
		}()
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return errorResult("analysis abandoned: "+err.Error(), start)
	}

	score := fuseIndicators(indicators)
	classification := classify(score)

	e.logger.Info("deepfake analysis complete",
		zap.String("video", videoPath),
		zap.String("classification", string(classification)),
		zap.Float64("deepfake_score", score),
		zap.Int("frames_analyzed", len(frames)),
	)

	return &entity.DeepfakeResult{
		Classification: classification,
		Confidence:     confidenceFor(classification, score),
		DeepfakeScore:  score,
		Indicators:     indicators,
		HeatmapFrames:  heatmapFrames(len(frames)),
		ProcessingTime: time.Since(start).Seconds(),
		ModelVersion:   ModelVersion,
		FramesAnalyzed: len(frames),
	}
}

func (e *Engine) audioReport(ctx context.Context, audioPath string) entity.SignalReport {
	stats, err := e.audio.ProbeAudio(ctx, audioPath)
	if err != nil {
		e.logger.Warn("audio probe failed, using neutral report",
			zap.String("audio", audioPath),
			zap.Error(err),
		)
		return neutralAudioReport()
	}
	return AnalyzeAudio(stats)
}

func errorResult(msg string, start time.Time) *entity.DeepfakeResult {
	return &entity.DeepfakeResult{
		Classification: entity.ClassificationError,
		Confidence:     0.0,
		DeepfakeScore:  0.5,
		Indicators:     map[string]entity.SignalReport{},
		HeatmapFrames:  []int{},
		ProcessingTime: time.Since(start).Seconds(),
		ModelVersion:   ModelVersion,
		Error:          msg,
	}
}
