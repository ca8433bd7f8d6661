// Package detection scores videos for deepfake manipulation. Four
// frame signals and an optional audio signal are fused into a single
// classification.
package detection

// Signal names as they appear in manipulation indicator reports.
const (
	SignalFaceConsistency      = "face_consistency"
	SignalLightingConsistency  = "lighting_consistency"
	SignalCompressionArtifacts = "compression_artifacts"
	SignalTemporalConsistency  = "temporal_consistency"
	SignalAudioManipulation    = "audio_manipulation"
)

// ModelVersion identifies the analyzer suite that produced a result.
const ModelVersion = "1.0.0"
