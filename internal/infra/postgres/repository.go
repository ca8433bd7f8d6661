package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.AnalysisJob) error {
	deepfake, geospatial, err := marshalResults(job)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO analysis_jobs (
			id, user_id, video_key, audio_key, evidence_key, status,
			file_size, classification, deepfake_score, deepfake_confidence,
			verification_status, verification_confidence, frames_analyzed,
			deepfake_result, geospatial_result,
			attempt, max_attempts, error_message,
			created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`

	_, err = r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.AudioKey, job.EvidenceKey, string(job.Status),
		job.FileSize, string(job.Classification), job.DeepfakeScore, job.DeepfakeConfidence,
		string(job.VerificationStatus), job.VerificationConfidence, job.FramesAnalyzed,
		deepfake, geospatial,
		job.Attempt, job.MaxAttempts, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.AnalysisJob) error {
	deepfake, geospatial, err := marshalResults(job)
	if err != nil {
		return err
	}

	query := `
		UPDATE analysis_jobs SET
			evidence_key=$2, status=$3,
			classification=$4, deepfake_score=$5, deepfake_confidence=$6,
			verification_status=$7, verification_confidence=$8, frames_analyzed=$9,
			deepfake_result=$10, geospatial_result=$11,
			attempt=$12, error_message=$13, updated_at=$14, completed_at=$15
		WHERE id=$1`

	_, err = r.pool.Exec(ctx, query,
		job.ID, job.EvidenceKey, string(job.Status),
		string(job.Classification), job.DeepfakeScore, job.DeepfakeConfidence,
		string(job.VerificationStatus), job.VerificationConfidence, job.FramesAnalyzed,
		deepfake, geospatial,
		job.Attempt, job.ErrorMessage, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisJob, error) {
	query := `
		SELECT id, user_id, video_key, audio_key, evidence_key, status,
			file_size, classification, deepfake_score, deepfake_confidence,
			verification_status, verification_confidence, frames_analyzed,
			deepfake_result, geospatial_result,
			attempt, max_attempts, error_message,
			created_at, updated_at, completed_at
		FROM analysis_jobs WHERE id=$1`

	job := &entity.AnalysisJob{}
	var status, classification, verification string
	var deepfake, geospatial []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.AudioKey, &job.EvidenceKey, &status,
		&job.FileSize, &classification, &job.DeepfakeScore, &job.DeepfakeConfidence,
		&verification, &job.VerificationConfidence, &job.FramesAnalyzed,
		&deepfake, &geospatial,
		&job.Attempt, &job.MaxAttempts, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)
	job.Classification = entity.Classification(classification)
	job.VerificationStatus = entity.VerificationStatus(verification)

	if len(deepfake) > 0 {
		job.Deepfake = &entity.DeepfakeResult{}
		if err := json.Unmarshal(deepfake, job.Deepfake); err != nil {
			return nil, fmt.Errorf("decode deepfake result: %w", err)
		}
	}
	if len(geospatial) > 0 {
		job.Geospatial = &entity.GeospatialResult{}
		if err := json.Unmarshal(geospatial, job.Geospatial); err != nil {
			return nil, fmt.Errorf("decode geospatial result: %w", err)
		}
	}
	return job, nil
}

// marshalResults encodes the verdict payloads for the JSONB columns. A
// nil result stays NULL so an unfinished job round-trips as nil.
func marshalResults(job *entity.AnalysisJob) ([]byte, []byte, error) {
	var deepfake, geospatial []byte
	var err error
	if job.Deepfake != nil {
		deepfake, err = json.Marshal(job.Deepfake)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal deepfake result: %w", err)
		}
	}
	if job.Geospatial != nil {
		geospatial, err = json.Marshal(job.Geospatial)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal geospatial result: %w", err)
		}
	}
	return deepfake, geospatial, nil
}
