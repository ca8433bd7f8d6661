package detection

import "github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"

const (
	deepfakeThreshold = 0.7
	realThreshold     = 0.3
)

// fusionTable maps each signal to the metric it contributes and its
// weight in the authenticity sum. Inverted metrics measure
// manipulation, so their complement measures authenticity.
var fusionTable = []struct {
	signal string
	metric string
	weight float64
	invert bool
}{
	{SignalFaceConsistency, "consistency_score", 0.30, false},
	{SignalLightingConsistency, "shadow_consistency", 0.20, false},
	{SignalCompressionArtifacts, "mean_artifact_score", 0.25, true},
	{SignalTemporalConsistency, "motion_consistency", 0.15, false},
	{SignalAudioManipulation, "audio_manipulation_score", 0.10, true},
}

// fuseIndicators folds the signal reports into a deepfake score in
// [0, 1]. Missing metrics contribute the neutral midpoint.
func fuseIndicators(indicators map[string]entity.SignalReport) float64 {
	authenticity := 0.0
	for _, entry := range fusionTable {
		value := 0.5
		if report, ok := indicators[entry.signal]; ok {
			if v, ok := report[entry.metric]; ok {
				value = v
			}
		}
		if entry.invert {
			value = 1.0 - value
		}
		authenticity += entry.weight * value
	}
	return 1.0 - authenticity
}

func classify(score float64) entity.Classification {
	switch {
	case score > deepfakeThreshold:
		return entity.ClassificationDeepfake
	case score < realThreshold:
		return entity.ClassificationReal
	default:
		return entity.ClassificationUncertain
	}
}

func confidenceFor(classification entity.Classification, score float64) float64 {
	if classification == entity.ClassificationReal {
		return 1.0 - score
	}
	return score
}

// heatmapFrames flags every third of the first ten sampled frames for
// review.
func heatmapFrames(frameCount int) []int {
	n := frameCount
	if n > 10 {
		n = 10
	}
	out := make([]int, 0, 4)
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			out = append(out, i)
		}
	}
	return out
}
