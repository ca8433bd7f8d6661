package geospatial

import (
	"image"

	"github.com/corona10/goimagehash"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

const (
	locationMethod = "frame_analysis"

	edgeGradientThreshold = 40
	structureEdgeShare    = 0.05
	landmarkEdgeShare     = 0.15
	textJumpThreshold     = 60
	perceptionHashBits    = 64.0
)

// locationWeights combines the indicators into one consistency score.
// Indicators outside this table (weather) are reported but unweighted.
var locationWeights = []struct {
	name   string
	weight float64
}{
	{"indicators_found", 0.3},
	{"consistency", 0.4},
	{"landmark_detection", 0.2},
	{"text_recognition", 0.1},
}

// AnalyzeLocationConsistency scores how well the sampled frames agree
// with a single filming location: scene structure, frame-to-frame
// visual stability, and lighting stability.
func AnalyzeLocationConsistency(frames []vision.Frame) *entity.LocationReport {
	indicators := entity.SignalReport{}
	if len(frames) == 0 {
		indicators["indicators_found"] = 0.0
		indicators["consistency"] = 0.0
		return &entity.LocationReport{
			ConsistencyScore: combineLocationIndicators(indicators),
			Indicators:       indicators,
			Method:           locationMethod,
		}
	}

	structured := 0
	landmarks := 0
	textual := 0
	luminanceMeans := make([]float64, 0, len(frames))
	for _, f := range frames {
		plane := vision.Luminance(f.Image)
		luminanceMeans = append(luminanceMeans, vision.MeanLuminance(plane))

		density := vision.EdgeDensity(plane, edgeGradientThreshold)
		if density > structureEdgeShare {
			structured++
		}
		if density > landmarkEdgeShare {
			landmarks++
		}
		if hasTextBands(plane) {
			textual++
		}
	}

	n := float64(len(frames))
	indicators["indicators_found"] = float64(structured) / n
	indicators["consistency"] = hashConsistency(frames)
	indicators["landmark_detection"] = float64(landmarks) / n
	indicators["text_recognition"] = float64(textual) / n
	indicators["weather_consistency"] = 1.0 / (1.0 + vision.Variance(luminanceMeans)/100.0)

	return &entity.LocationReport{
		ConsistencyScore: combineLocationIndicators(indicators),
		Indicators:       indicators,
		Method:           locationMethod,
	}
}

// hashConsistency turns the mean perceptual-hash distance between
// consecutive frames into a [0, 1] stability score.
func hashConsistency(frames []vision.Frame) float64 {
	if len(frames) < 2 {
		return 1.0
	}
	hashes := make([]*goimagehash.ImageHash, 0, len(frames))
	for _, f := range frames {
		h, err := goimagehash.PerceptionHash(f.Image)
		if err != nil {
			continue
		}
		hashes = append(hashes, h)
	}
	if len(hashes) < 2 {
		return 1.0
	}

	distances := make([]float64, 0, len(hashes)-1)
	for i := 1; i < len(hashes); i++ {
		d, err := hashes[i-1].Distance(hashes[i])
		if err != nil {
			continue
		}
		distances = append(distances, float64(d))
	}
	if len(distances) == 0 {
		return 1.0
	}
	return vision.Clamp01(1.0 - vision.Mean(distances)/perceptionHashBits)
}

// hasTextBands reports whether the plane shows rows of dense
// high-contrast transitions, the signature of rendered text such as
// street signs or storefronts.
func hasTextBands(plane *image.Gray) bool {
	w, h := plane.Bounds().Dx(), plane.Bounds().Dy()
	if w < 16 || h < 16 {
		return false
	}
	counts := vision.RowJumpCounts(plane, textJumpThreshold)
	dense := 0
	for _, n := range counts {
		if n >= w/12 {
			dense++
		}
	}
	minBand := h / 30
	if minBand < 2 {
		minBand = 2
	}
	return dense >= minBand
}

// combineLocationIndicators weights the present indicators, ignoring
// the weight mass of any that are absent.
func combineLocationIndicators(indicators entity.SignalReport) float64 {
	num, den := 0.0, 0.0
	for _, w := range locationWeights {
		if v, ok := indicators[w.name]; ok {
			num += v * w.weight
			den += w.weight
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}
