package geospatial

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
)

const (
	verifiedThreshold   = 0.7
	suspiciousThreshold = 0.3
)

// GPSSource yields a video's GPS record, or nil when it has none.
type GPSSource interface {
	Extract(ctx context.Context, videoPath string) *entity.GPSMetadata
}

// Engine runs the geospatial verification suite over one video.
type Engine struct {
	gps       GPSSource
	sampler   port.FrameSampler
	maxFrames int
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(gps GPSSource, sampler port.FrameSampler, maxFrames int, logger *zap.Logger) *Engine {
	return &Engine{
		gps:       gps,
		sampler:   sampler,
		maxFrames: maxFrames,
		logger:    logger,
		now:       time.Now,
	}
}

// VerifyAuthenticity checks the video's location claims. Failures are
// encoded in the returned result's status; the method never returns an
// error and never panics across this boundary.
func (e *Engine) VerifyAuthenticity(ctx context.Context, videoPath string) (result *entity.GeospatialResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("geospatial verification panicked",
				zap.String("video", videoPath),
				zap.Any("panic", r),
			)
			result = errorResult(fmt.Sprintf("internal failure: %v", r), start)
		}
	}()

	meta := e.gps.Extract(ctx, videoPath)
	if err := ctx.Err(); err != nil {
		return errorResult("verification abandoned: "+err.Error(), start)
	}
	if meta == nil {
		e.logger.Info("no GPS metadata, verification failed",
			zap.String("video", videoPath))
		return &entity.GeospatialResult{
			Status:         entity.VerificationFailed,
			Confidence:     0.0,
			ProcessingTime: time.Since(start).Seconds(),
			Error:          "no GPS metadata found in video",
		}
	}

	location := AnalyzeLocationConsistency(e.sampler.Sample(ctx, videoPath, e.maxFrames))
	manipulation := DetectManipulation(meta, e.now())
	if err := ctx.Err(); err != nil {
		return errorResult("verification abandoned: "+err.Error(), start)
	}

	confidence := (location.ConsistencyScore + (1.0 - manipulation.OverallProbability)) / 2.0
	status := verificationStatus(confidence)

	e.logger.Info("geospatial verification complete",
		zap.String("video", videoPath),
		zap.String("status", string(status)),
		zap.Float64("confidence", confidence),
		zap.Strings("suspicious_patterns", manipulation.SuspiciousPatterns),
	)

	return &entity.GeospatialResult{
		Status:              status,
		Confidence:          confidence,
		GPSMetadata:         meta,
		LocationConsistency: location,
		GPSManipulation:     manipulation,
		Methods: []string{
			"gps_metadata_extraction",
			"location_consistency_analysis",
			"manipulation_pattern_detection",
		},
		ProcessingTime: time.Since(start).Seconds(),
	}
}

func verificationStatus(confidence float64) entity.VerificationStatus {
	switch {
	case confidence > verifiedThreshold:
		return entity.VerificationVerified
	case confidence < suspiciousThreshold:
		return entity.VerificationSuspicious
	default:
		return entity.VerificationUncertain
	}
}

func errorResult(msg string, start time.Time) *entity.GeospatialResult {
	return &entity.GeospatialResult{
		Status:         entity.VerificationError,
		Confidence:     0.0,
		ProcessingTime: time.Since(start).Seconds(),
		Error:          msg,
	}
}
