package detection

import (
	"image"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// AnalyzeTemporalConsistency scores how smoothly motion evolves across
// consecutive sampled frames. Frame-by-frame synthesis produces motion
// whose magnitude jumps erratically.
func AnalyzeTemporalConsistency(frames []vision.Frame) entity.SignalReport {
	if len(frames) < 2 {
		return entity.SignalReport{
			"motion_consistency": 0.0,
			"temporal_variance":  0.0,
		}
	}

	planes := make([]*image.Gray, len(frames))
	for i, f := range frames {
		planes[i] = vision.Luminance(f.Image)
	}

	magnitudes := make([]float64, 0, len(frames)-1)
	for i := 1; i < len(planes); i++ {
		magnitudes = append(magnitudes, vision.MeanFlowMagnitude(planes[i-1], planes[i]))
	}

	variance := vision.Variance(magnitudes)
	return entity.SignalReport{
		"motion_consistency": 1.0 / (1.0 + variance/100.0),
		"temporal_variance":  variance,
		"mean_motion":        vision.Mean(magnitudes),
	}
}
