// Package analysis exposes the video authenticity pipeline that
// collaborators call: deepfake detection and geospatial verification
// over one video file.
package analysis

import (
	"context"
	"sync"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
)

// DeepfakeAnalyzer scores one video for manipulation.
type DeepfakeAnalyzer interface {
	AnalyzeVideo(ctx context.Context, videoPath, audioPath string) *entity.DeepfakeResult
}

// GeospatialVerifier checks one video's location claims.
type GeospatialVerifier interface {
	VerifyAuthenticity(ctx context.Context, videoPath string) *entity.GeospatialResult
}

// Pipeline bundles both engines behind one entry point. The two
// pipelines share no intermediate state: each samples the video
// independently and is individually retriable.
type Pipeline struct {
	deepfake   DeepfakeAnalyzer
	geospatial GeospatialVerifier
}

func NewPipeline(deepfake DeepfakeAnalyzer, geospatial GeospatialVerifier) *Pipeline {
	return &Pipeline{deepfake: deepfake, geospatial: geospatial}
}

// AnalyzeVideo runs only the deepfake pipeline.
func (p *Pipeline) AnalyzeVideo(ctx context.Context, videoPath, audioPath string) *entity.DeepfakeResult {
	return p.deepfake.AnalyzeVideo(ctx, videoPath, audioPath)
}

// VerifyGeospatialAuthenticity runs only the geospatial pipeline.
func (p *Pipeline) VerifyGeospatialAuthenticity(ctx context.Context, videoPath string) *entity.GeospatialResult {
	return p.geospatial.VerifyAuthenticity(ctx, videoPath)
}

// Run executes both pipelines concurrently and waits for both. Every
// returned report carries two populated results; failures are encoded
// in their status fields.
func (p *Pipeline) Run(ctx context.Context, videoPath, audioPath string) *entity.AnalysisReport {
	report := &entity.AnalysisReport{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Deepfake = p.deepfake.AnalyzeVideo(ctx, videoPath, audioPath)
	}()
	go func() {
		defer wg.Done()
		report.Geospatial = p.geospatial.VerifyAuthenticity(ctx, videoPath)
	}()
	wg.Wait()
	return report
}
