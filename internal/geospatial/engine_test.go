package geospatial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision/visiontest"
)

type stubGPS struct{ meta *entity.GPSMetadata }

func (s *stubGPS) Extract(context.Context, string) *entity.GPSMetadata { return s.meta }

type panicGPS struct{}

func (panicGPS) Extract(context.Context, string) *entity.GPSMetadata { panic("tag soup") }

type stubSampler struct {
	frames []vision.Frame
	called bool
	gotMax int
}

func (s *stubSampler) Sample(_ context.Context, _ string, maxFrames int) []vision.Frame {
	s.called = true
	s.gotMax = maxFrames
	return s.frames
}

func goodMeta(now time.Time) *entity.GPSMetadata {
	ts := now.Add(-time.Hour)
	return &entity.GPSMetadata{
		Latitude:   37.7749,
		Longitude:  -122.4194,
		Accuracy:   f64(5.0),
		Satellites: intp(8),
		Timestamp:  &ts,
		DeviceInfo: "Apple iPhone 12",
	}
}

func TestVerifyAuthenticityNoMetadataFails(t *testing.T) {
	sampler := &stubSampler{}
	engine := NewEngine(&stubGPS{}, sampler, 20, zap.NewNop())

	result := engine.VerifyAuthenticity(context.Background(), "video.mp4")

	assert.Equal(t, entity.VerificationFailed, result.Status)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "no GPS metadata found in video", result.Error)
	assert.Nil(t, result.GPSMetadata)
	assert.Nil(t, result.LocationConsistency)
	assert.Nil(t, result.GPSManipulation)
	// sub-analyzers must not run without metadata
	assert.False(t, sampler.called)
}

func TestVerifyAuthenticityCleanRecord(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	frame := visiontest.Noise(0, 64, 64, 7)
	sampler := &stubSampler{frames: []vision.Frame{frame, frame, frame}}

	engine := NewEngine(&stubGPS{meta: goodMeta(now)}, sampler, 20, zap.NewNop())
	engine.now = func() time.Time { return now }

	result := engine.VerifyAuthenticity(context.Background(), "video.mp4")

	require.True(t, sampler.called)
	assert.Equal(t, 20, sampler.gotMax)
	require.NotNil(t, result.GPSManipulation)
	assert.InDelta(t, 0.1, result.GPSManipulation.OverallProbability, 1e-12)
	assert.Empty(t, result.GPSManipulation.SuspiciousPatterns)
	require.NotNil(t, result.LocationConsistency)
	assert.GreaterOrEqual(t, result.LocationConsistency.ConsistencyScore, 0.9)

	// confidence = (location + (1 - manipulation)) / 2 with location
	// at least 0.9 clears the verified threshold
	assert.Greater(t, result.Confidence, 0.7)
	assert.Equal(t, entity.VerificationVerified, result.Status)
	assert.Equal(t, goodMeta(now).Latitude, result.GPSMetadata.Latitude)
	assert.Len(t, result.Methods, 3)
	assert.Empty(t, result.Error)
}

func TestVerifyAuthenticityTamperedRecord(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-48 * time.Hour)
	meta := &entity.GPSMetadata{
		Latitude:   37.7749,
		Longitude:  -122.4194,
		Accuracy:   f64(0.5),
		Satellites: intp(3),
		Timestamp:  &stale,
	}
	// unreadable file: no frames, location consistency collapses to 0
	engine := NewEngine(&stubGPS{meta: meta}, &stubSampler{}, 20, zap.NewNop())
	engine.now = func() time.Time { return now }

	result := engine.VerifyAuthenticity(context.Background(), "video.mp4")

	// manipulation (0.1+0.8+0.7+0.8)/4 = 0.6, confidence (0+0.4)/2 = 0.2
	assert.InDelta(t, 0.2, result.Confidence, 1e-9)
	assert.Equal(t, entity.VerificationSuspicious, result.Status)
	assert.Equal(t,
		[]string{PatternAccuracyAnomaly, PatternSatelliteAnomaly, PatternTimestampMismatch},
		result.GPSManipulation.SuspiciousPatterns,
	)
}

func TestVerifyAuthenticityCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(&stubGPS{meta: goodMeta(time.Now())}, &stubSampler{}, 20, zap.NewNop())
	result := engine.VerifyAuthenticity(ctx, "video.mp4")

	assert.Equal(t, entity.VerificationError, result.Status)
	assert.Equal(t, 0.0, result.Confidence)
	assert.NotEmpty(t, result.Error)
}

func TestVerifyAuthenticityRecoversPanic(t *testing.T) {
	engine := NewEngine(panicGPS{}, &stubSampler{}, 20, zap.NewNop())
	result := engine.VerifyAuthenticity(context.Background(), "video.mp4")

	assert.Equal(t, entity.VerificationError, result.Status)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Error, "internal failure")
}

func TestVerificationStatusBoundaries(t *testing.T) {
	tests := []struct {
		confidence float64
		want       entity.VerificationStatus
	}{
		{0.71, entity.VerificationVerified},
		{0.70, entity.VerificationUncertain},
		{0.50, entity.VerificationUncertain},
		{0.30, entity.VerificationUncertain},
		{0.29, entity.VerificationSuspicious},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, verificationStatus(tt.confidence), "confidence %v", tt.confidence)
	}
}
