package detection

import (
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// AnalyzeFaceConsistency scores how stable the detected face count
// stays across the sampled frames. Face swaps tend to flicker: faces
// drop out or duplicate between neighboring frames.
func AnalyzeFaceConsistency(frames []vision.Frame, detector port.FaceDetector) entity.SignalReport {
	if len(frames) < 2 {
		return entity.SignalReport{
			"consistency_score":   0.0,
			"face_count_variance": 0.0,
		}
	}

	counts := make([]float64, 0, len(frames))
	total := 0
	for _, f := range frames {
		faces := detector.DetectFaces(vision.Luminance(f.Image))
		counts = append(counts, float64(len(faces)))
		total += len(faces)
	}

	variance := vision.Variance(counts)
	return entity.SignalReport{
		"consistency_score":    1.0 / (1.0 + variance),
		"face_count_variance":  variance,
		"total_faces_detected": float64(total),
	}
}
