package entity

// Classification is the deepfake verdict for one video.
type Classification string

const (
	ClassificationReal      Classification = "real"
	ClassificationUncertain Classification = "uncertain"
	ClassificationDeepfake  Classification = "deepfake"
	ClassificationError     Classification = "error"
)

// SignalReport carries the named metrics of one analysis signal.
// Reports are not mutated after an analyzer returns them.
type SignalReport map[string]float64

// DeepfakeResult is the fused outcome of the deepfake detection
// pipeline for one video.
type DeepfakeResult struct {
	Classification Classification          `json:"classification"`
	Confidence     float64                 `json:"confidence"`
	DeepfakeScore  float64                 `json:"deepfake_score"`
	Indicators     map[string]SignalReport `json:"manipulation_indicators"`
	HeatmapFrames  []int                   `json:"heatmap_frames"`
	ProcessingTime float64                 `json:"processing_time"`
	ModelVersion   string                  `json:"model_version"`
	FramesAnalyzed int                     `json:"frames_analyzed"`
	Error          string                  `json:"error,omitempty"`
}
