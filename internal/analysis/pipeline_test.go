package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsecure/deepsecure-analysis-service/internal/analysis"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
)

type stubDeepfake struct {
	result   *entity.DeepfakeResult
	gotVideo string
	gotAudio string
}

func (s *stubDeepfake) AnalyzeVideo(_ context.Context, videoPath, audioPath string) *entity.DeepfakeResult {
	s.gotVideo = videoPath
	s.gotAudio = audioPath
	return s.result
}

type stubGeo struct {
	result   *entity.GeospatialResult
	gotVideo string
}

func (s *stubGeo) VerifyAuthenticity(_ context.Context, videoPath string) *entity.GeospatialResult {
	s.gotVideo = videoPath
	return s.result
}

func TestRunPopulatesBothResults(t *testing.T) {
	df := &stubDeepfake{result: &entity.DeepfakeResult{Classification: entity.ClassificationReal}}
	geo := &stubGeo{result: &entity.GeospatialResult{Status: entity.VerificationVerified}}
	pipeline := analysis.NewPipeline(df, geo)

	report := pipeline.Run(context.Background(), "video.mp4", "audio.wav")

	require.NotNil(t, report.Deepfake)
	require.NotNil(t, report.Geospatial)
	assert.Equal(t, entity.ClassificationReal, report.Deepfake.Classification)
	assert.Equal(t, entity.VerificationVerified, report.Geospatial.Status)
	assert.Equal(t, "video.mp4", df.gotVideo)
	assert.Equal(t, "audio.wav", df.gotAudio)
	assert.Equal(t, "video.mp4", geo.gotVideo)
}

func TestRunKeepsIndependentFailures(t *testing.T) {
	df := &stubDeepfake{result: &entity.DeepfakeResult{
		Classification: entity.ClassificationError,
		Error:          "decoder blew up",
	}}
	geo := &stubGeo{result: &entity.GeospatialResult{Status: entity.VerificationFailed}}
	pipeline := analysis.NewPipeline(df, geo)

	report := pipeline.Run(context.Background(), "video.mp4", "")

	assert.Equal(t, entity.ClassificationError, report.Deepfake.Classification)
	assert.Equal(t, entity.VerificationFailed, report.Geospatial.Status)
}

func TestSingleEnginePassthrough(t *testing.T) {
	df := &stubDeepfake{result: &entity.DeepfakeResult{Classification: entity.ClassificationUncertain}}
	geo := &stubGeo{result: &entity.GeospatialResult{Status: entity.VerificationUncertain}}
	pipeline := analysis.NewPipeline(df, geo)

	assert.Equal(t, df.result, pipeline.AnalyzeVideo(context.Background(), "v.mp4", ""))
	assert.Equal(t, geo.result, pipeline.VerifyGeospatialAuthenticity(context.Background(), "v.mp4"))
}
