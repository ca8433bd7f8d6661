package detection

import (
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// AnalyzeCompressionArtifacts measures high-frequency residue in each
// frame's luma plane. Re-encoded or generated regions leave a
// different artifact signature than a single camera encode.
func AnalyzeCompressionArtifacts(frames []vision.Frame) entity.SignalReport {
	if len(frames) == 0 {
		return entity.SignalReport{
			"mean_artifact_score": 0.0,
			"artifact_variance":   0.0,
			"max_artifact_score":  0.0,
		}
	}

	scores := make([]float64, 0, len(frames))
	for _, f := range frames {
		responses := vision.Convolve3x3(vision.Luminance(f.Image), vision.HighPassKernel)
		scores = append(scores, vision.StdDev(responses)/255.0)
	}

	return entity.SignalReport{
		"mean_artifact_score": vision.Mean(scores),
		"artifact_variance":   vision.Variance(scores),
		"max_artifact_score":  vision.Max(scores),
	}
}
