package detection_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsecure/deepsecure-analysis-service/internal/detection"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision/visiontest"
)

// seqDetector reports a scripted face count per call.
type seqDetector struct {
	counts []int
	call   int
}

func (d *seqDetector) DetectFaces(*image.Gray) []image.Rectangle {
	n := d.counts[d.call%len(d.counts)]
	d.call++
	return make([]image.Rectangle, n)
}

func TestFaceConsistencyDegenerate(t *testing.T) {
	detector := &seqDetector{counts: []int{1}}
	for _, frames := range [][]vision.Frame{nil, visiontest.Uniforms(1, 32, 32, 100)} {
		report := detection.AnalyzeFaceConsistency(frames, detector)
		assert.Equal(t, 0.0, report["consistency_score"])
		assert.Equal(t, 0.0, report["face_count_variance"])
		assert.NotContains(t, report, "total_faces_detected")
	}
}

func TestFaceConsistencyStableCount(t *testing.T) {
	detector := &seqDetector{counts: []int{1}}
	report := detection.AnalyzeFaceConsistency(visiontest.Uniforms(4, 32, 32, 100), detector)
	assert.InDelta(t, 1.0, report["consistency_score"], 1e-12)
	assert.InDelta(t, 0.0, report["face_count_variance"], 1e-12)
	assert.InDelta(t, 4.0, report["total_faces_detected"], 1e-12)
}

func TestFaceConsistencyFlickeringCount(t *testing.T) {
	detector := &seqDetector{counts: []int{0, 2}}
	report := detection.AnalyzeFaceConsistency(visiontest.Uniforms(4, 32, 32, 100), detector)
	// counts {0,2,0,2}: population variance 1
	assert.InDelta(t, 1.0, report["face_count_variance"], 1e-12)
	assert.InDelta(t, 0.5, report["consistency_score"], 1e-12)
	assert.InDelta(t, 4.0, report["total_faces_detected"], 1e-12)
}

func TestLightingConsistencyDegenerate(t *testing.T) {
	report := detection.AnalyzeLightingConsistency(visiontest.Uniforms(1, 32, 32, 100))
	assert.Equal(t, 0.0, report["lighting_variance"])
	assert.Equal(t, 0.0, report["shadow_consistency"])
	assert.NotContains(t, report, "mean_lighting")
}

func TestLightingConsistencyStable(t *testing.T) {
	report := detection.AnalyzeLightingConsistency(visiontest.Uniforms(5, 32, 32, 120))
	assert.InDelta(t, 0.0, report["lighting_variance"], 1e-9)
	assert.InDelta(t, 1.0, report["shadow_consistency"], 1e-9)
	assert.InDelta(t, 120.0, report["mean_lighting"], 0.5)
}

func TestLightingConsistencyDrift(t *testing.T) {
	frames := []vision.Frame{
		visiontest.Uniform(0, 32, 32, color.RGBA{R: 100, G: 100, B: 100, A: 255}),
		visiontest.Uniform(1, 32, 32, color.RGBA{R: 200, G: 200, B: 200, A: 255}),
	}
	report := detection.AnalyzeLightingConsistency(frames)
	// means {100,200}: population variance 2500
	assert.InDelta(t, 2500.0, report["lighting_variance"], 1.0)
	assert.InDelta(t, 1.0/26.0, report["shadow_consistency"], 1e-3)
	assert.InDelta(t, 150.0, report["mean_lighting"], 0.5)
}

func TestCompressionArtifactsEmpty(t *testing.T) {
	report := detection.AnalyzeCompressionArtifacts(nil)
	assert.Equal(t, 0.0, report["mean_artifact_score"])
	assert.Equal(t, 0.0, report["artifact_variance"])
	assert.Equal(t, 0.0, report["max_artifact_score"])
}

func TestCompressionArtifactsFlat(t *testing.T) {
	report := detection.AnalyzeCompressionArtifacts(visiontest.Uniforms(3, 32, 32, 90))
	assert.InDelta(t, 0.0, report["mean_artifact_score"], 1e-12)
	assert.InDelta(t, 0.0, report["max_artifact_score"], 1e-12)
}

func TestCompressionArtifactsStructured(t *testing.T) {
	frames := []vision.Frame{
		visiontest.Uniform(0, 32, 32, color.RGBA{R: 90, G: 90, B: 90, A: 255}),
		visiontest.Checkerboard(1, 32, 32, 2, 0),
	}
	report := detection.AnalyzeCompressionArtifacts(frames)
	assert.Greater(t, report["max_artifact_score"], report["mean_artifact_score"])
	assert.Greater(t, report["artifact_variance"], 0.0)
	assert.LessOrEqual(t, report["max_artifact_score"], 1.0)
}

func TestTemporalConsistencyDegenerate(t *testing.T) {
	report := detection.AnalyzeTemporalConsistency(visiontest.Uniforms(1, 64, 64, 100))
	assert.Equal(t, 0.0, report["motion_consistency"])
	assert.Equal(t, 0.0, report["temporal_variance"])
	assert.NotContains(t, report, "mean_motion")
}

func TestTemporalConsistencyStaticScene(t *testing.T) {
	frames := []vision.Frame{
		visiontest.Checkerboard(0, 64, 64, 8, 0),
		visiontest.Checkerboard(1, 64, 64, 8, 0),
		visiontest.Checkerboard(2, 64, 64, 8, 0),
	}
	report := detection.AnalyzeTemporalConsistency(frames)
	assert.InDelta(t, 1.0, report["motion_consistency"], 1e-12)
	assert.InDelta(t, 0.0, report["temporal_variance"], 1e-12)
	assert.InDelta(t, 0.0, report["mean_motion"], 1e-12)
}

func TestTemporalConsistencyErraticMotion(t *testing.T) {
	frames := []vision.Frame{
		visiontest.Checkerboard(0, 64, 64, 8, 0),
		visiontest.Checkerboard(1, 64, 64, 8, 0),
		visiontest.Checkerboard(2, 64, 64, 8, 5),
	}
	report := detection.AnalyzeTemporalConsistency(frames)
	assert.Less(t, report["motion_consistency"], 1.0)
	assert.Greater(t, report["temporal_variance"], 0.0)
	assert.Greater(t, report["mean_motion"], 0.0)
}

func TestAnalyzeAudio(t *testing.T) {
	report := detection.AnalyzeAudio(&port.AudioStats{MeanVolumeDB: -18.0, MaxVolumeDB: -6.0})
	// dynamics of exactly 12 dB reads as fully natural speech
	assert.InDelta(t, 1.0, report["voice_consistency"], 1e-12)
	assert.InDelta(t, 0.7, report["audio_quality"], 1e-12)
	assert.InDelta(t, 1.0-(0.6*1.0+0.4*0.7), report["audio_manipulation_score"], 1e-12)
}

func TestAnalyzeAudioFlatTrack(t *testing.T) {
	report := detection.AnalyzeAudio(&port.AudioStats{MeanVolumeDB: -20.0, MaxVolumeDB: -20.0})
	assert.InDelta(t, 0.5, report["voice_consistency"], 1e-12)
	for _, v := range report {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestAnalyzeAudioClampsExtremes(t *testing.T) {
	quiet := detection.AnalyzeAudio(&port.AudioStats{MeanVolumeDB: -95.0, MaxVolumeDB: -90.0})
	assert.Equal(t, 0.0, quiet["audio_quality"])

	hot := detection.AnalyzeAudio(&port.AudioStats{MeanVolumeDB: 3.0, MaxVolumeDB: 3.0})
	assert.Equal(t, 1.0, hot["audio_quality"])

	for _, report := range []map[string]float64{quiet, hot} {
		for name, v := range report {
			require.GreaterOrEqual(t, v, 0.0, name)
			require.LessOrEqual(t, v, 1.0, name)
		}
	}
}
