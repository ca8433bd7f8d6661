package detection

import (
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// AnalyzeLightingConsistency scores how stable overall scene
// brightness stays across the sampled frames. Spliced content often
// carries lighting that drifts against the host footage.
func AnalyzeLightingConsistency(frames []vision.Frame) entity.SignalReport {
	if len(frames) < 2 {
		return entity.SignalReport{
			"lighting_variance":  0.0,
			"shadow_consistency": 0.0,
		}
	}

	means := make([]float64, 0, len(frames))
	for _, f := range frames {
		means = append(means, vision.MeanLuminance(vision.Luminance(f.Image)))
	}

	variance := vision.Variance(means)
	return entity.SignalReport{
		"lighting_variance":  variance,
		"shadow_consistency": 1.0 / (1.0 + variance/100.0),
		"mean_lighting":      vision.Mean(means),
	}
}
