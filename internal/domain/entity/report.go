package entity

// AnalysisReport is the unified per-video record produced by one
// pipeline run: both verdicts, always populated.
type AnalysisReport struct {
	Deepfake   *DeepfakeResult   `json:"deepfake"`
	Geospatial *GeospatialResult `json:"geospatial"`
}
