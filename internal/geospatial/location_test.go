package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision/visiontest"
)

func TestAnalyzeLocationConsistencyNoFrames(t *testing.T) {
	report := AnalyzeLocationConsistency(nil)

	require.NotNil(t, report)
	assert.Equal(t, "frame_analysis", report.Method)
	assert.Equal(t, 0.0, report.ConsistencyScore)
	assert.Len(t, report.Indicators, 2)
	assert.Equal(t, 0.0, report.Indicators["indicators_found"])
	assert.Equal(t, 0.0, report.Indicators["consistency"])
}

func TestAnalyzeLocationConsistencyFlatScene(t *testing.T) {
	report := AnalyzeLocationConsistency(visiontest.Uniforms(5, 64, 64, 120))

	// featureless frames: no structure, no landmarks, no text, but the
	// identical frames hash as perfectly stable
	assert.Equal(t, 0.0, report.Indicators["indicators_found"])
	assert.Equal(t, 0.0, report.Indicators["landmark_detection"])
	assert.Equal(t, 0.0, report.Indicators["text_recognition"])
	assert.InDelta(t, 1.0, report.Indicators["consistency"], 1e-9)
	assert.InDelta(t, 1.0, report.Indicators["weather_consistency"], 1e-9)
	assert.InDelta(t, 0.4, report.ConsistencyScore, 1e-9)
}

func TestAnalyzeLocationConsistencyStructuredScene(t *testing.T) {
	frame := visiontest.Noise(0, 64, 64, 7)
	frames := []vision.Frame{frame, frame, frame, frame}

	report := AnalyzeLocationConsistency(frames)

	assert.Equal(t, 1.0, report.Indicators["indicators_found"])
	assert.Equal(t, 1.0, report.Indicators["landmark_detection"])
	assert.InDelta(t, 1.0, report.Indicators["consistency"], 1e-9)
	assert.GreaterOrEqual(t, report.ConsistencyScore, 0.9)
	for name, v := range report.Indicators {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
}

func TestHashConsistencySingleFrame(t *testing.T) {
	assert.Equal(t, 1.0, hashConsistency(visiontest.Uniforms(1, 64, 64, 50)))
}

func TestCombineLocationIndicators(t *testing.T) {
	// absent indicators drop out of both numerator and denominator
	assert.InDelta(t, 0.8, combineLocationIndicators(entity.SignalReport{"consistency": 0.8}), 1e-12)
	assert.InDelta(t, 1.0, combineLocationIndicators(entity.SignalReport{
		"indicators_found":   1.0,
		"consistency":        1.0,
		"landmark_detection": 1.0,
		"text_recognition":   1.0,
	}), 1e-12)
	assert.Equal(t, 0.0, combineLocationIndicators(entity.SignalReport{}))
	// unweighted indicators are ignored entirely
	assert.Equal(t, 0.0, combineLocationIndicators(entity.SignalReport{"weather_consistency": 1.0}))
}
