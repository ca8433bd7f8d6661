package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// AnalysisJob tracks one video through the authenticity pipeline, from
// the inbound queue message to the persisted verdicts.
type AnalysisJob struct {
	ID          uuid.UUID
	UserID      string
	VideoKey    string
	AudioKey    string
	EvidenceKey string
	Status      JobStatus
	FileSize    int64

	Classification         Classification
	DeepfakeScore          float64
	DeepfakeConfidence     float64
	VerificationStatus     VerificationStatus
	VerificationConfidence float64
	FramesAnalyzed         int

	Deepfake   *DeepfakeResult
	Geospatial *GeospatialResult

	Attempt      int
	MaxAttempts  int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func NewAnalysisJob(userID, videoKey, audioKey string, fileSize int64, maxAttempts int) *AnalysisJob {
	now := time.Now().UTC()
	return &AnalysisJob{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		AudioKey:    audioKey,
		FileSize:    fileSize,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *AnalysisJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

func (j *AnalysisJob) MarkCompleted(report *AnalysisReport, evidenceKey string) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.EvidenceKey = evidenceKey
	if df := report.Deepfake; df != nil {
		j.Deepfake = df
		j.Classification = df.Classification
		j.DeepfakeScore = df.DeepfakeScore
		j.DeepfakeConfidence = df.Confidence
		j.FramesAnalyzed = df.FramesAnalyzed
	}
	if geo := report.Geospatial; geo != nil {
		j.Geospatial = geo
		j.VerificationStatus = geo.Status
		j.VerificationConfidence = geo.Confidence
	}
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *AnalysisJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *AnalysisJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
