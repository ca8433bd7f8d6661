package entity

import "github.com/google/uuid"

// VideoAnalysisMessage is the inbound message from the video.analysis queue.
type VideoAnalysisMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	AudioKey  string    `json:"audio_key,omitempty"`
	FileSize  int64     `json:"file_size"`
	UserEmail string    `json:"user_email"`
}

// AnalysisStatusMessage is the outbound message published to the
// video.analysis.status queue.
type AnalysisStatusMessage struct {
	JobID                  uuid.UUID          `json:"job_id"`
	UserID                 string             `json:"user_id"`
	Status                 JobStatus          `json:"status"`
	VideoKey               string             `json:"video_key"`
	Classification         Classification     `json:"classification,omitempty"`
	DeepfakeScore          float64            `json:"deepfake_score,omitempty"`
	VerificationStatus     VerificationStatus `json:"verification_status,omitempty"`
	VerificationConfidence float64            `json:"verification_confidence,omitempty"`
	EvidenceKey            string             `json:"evidence_key,omitempty"`
	FramesAnalyzed         int                `json:"frames_analyzed,omitempty"`
	ErrorMessage           string             `json:"error_message,omitempty"`
	Attempt                int                `json:"attempt"`
	MaxAttempts            int                `json:"max_attempts"`
}
