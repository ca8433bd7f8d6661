package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/metrics"
)

// AnalysisPipeline runs both authenticity engines over one video.
// Results never come back nil; failures are encoded in their fields.
type AnalysisPipeline interface {
	Run(ctx context.Context, videoPath, audioPath string) *entity.AnalysisReport
}

type AnalyzeVideoUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	pipeline  AnalysisPipeline
	exporter  port.FrameExporter
	zipper    port.Zipper
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger

	tempDir       string
	maxRetry      int
	maxFrames     int
	jobTimeout    time.Duration
	fallbackEmail string
}

type AnalyzeVideoConfig struct {
	TempDir    string
	MaxRetries int
	MaxFrames  int
	JobTimeout time.Duration
	// FallbackEmail receives permanent-failure notices for messages
	// that carry no uploader address.
	FallbackEmail string
}

func NewAnalyzeVideoUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	pipeline AnalysisPipeline,
	exporter port.FrameExporter,
	zipper port.Zipper,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg AnalyzeVideoConfig,
) *AnalyzeVideoUseCase {
	return &AnalyzeVideoUseCase{
		repo:          repo,
		storage:       storage,
		pipeline:      pipeline,
		exporter:      exporter,
		zipper:        zipper,
		publisher:     publisher,
		dlq:           dlq,
		notifier:      notifier,
		logger:        logger,
		tempDir:       cfg.TempDir,
		maxRetry:      cfg.MaxRetries,
		maxFrames:     cfg.MaxFrames,
		jobTimeout:    cfg.JobTimeout,
		fallbackEmail: cfg.FallbackEmail,
	}
}

func (uc *AnalyzeVideoUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "AnalyzeVideoUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.VideoAnalysisMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewAnalysisJob(msg.UserID, msg.VideoKey, msg.AudioKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.runAnalysis(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *AnalyzeVideoUseCase) runAnalysis(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.VideoAnalysisMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	// Bookkeeping (repo updates, publishes) stays on the parent ctx so
	// a timed-out job still records its failure.
	workCtx := ctx
	if uc.jobTimeout > 0 {
		var cancel context.CancelFunc
		workCtx, cancel = context.WithTimeout(ctx, uc.jobTimeout)
		defer cancel()
	}

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(workCtx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadObject(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()

	// Download the sidecar audio when keyed. The engines fall back to a
	// neutral audio signal, so a missing sidecar degrades the analysis
	// instead of failing the job.
	audioPath := ""
	if msg.AudioKey != "" {
		ctx3, spanAu := tracer.Start(workCtx, "download_audio")
		audioPath = filepath.Join(workDir, "input_audio"+filepath.Ext(msg.AudioKey))
		if err := uc.storage.DownloadObject(ctx3, msg.AudioKey, audioPath); err != nil {
			log.Warn("failed to download audio, analyzing without it", zap.Error(err))
			audioPath = ""
		}
		spanAu.End()
	}
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Run both authenticity pipelines
	anStart := time.Now()
	ctx4, spanAn := tracer.Start(workCtx, "analyze_video")
	report := uc.pipeline.Run(ctx4, videoPath, audioPath)
	spanAn.End()
	metrics.JobProcessingDuration.WithLabelValues("analyze").Observe(time.Since(anStart).Seconds())
	metrics.FramesAnalyzedTotal.Add(float64(report.Deepfake.FramesAnalyzed))
	metrics.AnalysesTotal.WithLabelValues("deepfake", string(report.Deepfake.Classification)).Inc()
	metrics.AnalysesTotal.WithLabelValues("geospatial", string(report.Geospatial.Status)).Inc()

	// Degenerate results are valid results; only a run where both
	// pipelines hit hard errors counts as a processing failure.
	if report.Deepfake.Classification == entity.ClassificationError &&
		report.Geospatial.Status == entity.VerificationError {
		errMsg := fmt.Sprintf("analysis failed: deepfake: %s; geospatial: %s",
			report.Deepfake.Error, report.Geospatial.Error)
		log.Error("both pipelines failed", zap.String("error", errMsg))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, errMsg, log)
	}

	evidenceKey := uc.exportEvidence(workCtx, job, videoPath, workDir, report, log)

	job.MarkCompleted(report, evidenceKey)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("analysis completed",
		zap.String("classification", string(job.Classification)),
		zap.Float64("deepfake_score", job.DeepfakeScore),
		zap.String("verification_status", string(job.VerificationStatus)),
		zap.Int("frames_analyzed", job.FramesAnalyzed),
		zap.String("evidence_key", evidenceKey),
	)

	return nil
}

// exportEvidence re-extracts the flagged heatmap frames, zips them and
// uploads the bundle. Export failure is logged, never fatal: the
// verdicts stand without the bundle.
func (uc *AnalyzeVideoUseCase) exportEvidence(
	ctx context.Context,
	job *entity.AnalysisJob,
	videoPath, workDir string,
	report *entity.AnalysisReport,
	log *zap.Logger,
) string {
	if report.Deepfake == nil || len(report.Deepfake.HeatmapFrames) == 0 {
		return ""
	}

	tracer := otel.Tracer("usecase")
	evStart := time.Now()
	ctx, span := tracer.Start(ctx, "export_evidence")
	defer span.End()

	evidenceDir := filepath.Join(workDir, "evidence")
	if err := os.MkdirAll(evidenceDir, 0755); err != nil {
		log.Warn("evidence export skipped", zap.Error(err))
		return ""
	}

	framePaths, err := uc.exporter.ExportFrames(ctx, videoPath, report.Deepfake.HeatmapFrames, uc.maxFrames, evidenceDir)
	if err != nil {
		log.Warn("evidence frame export failed", zap.Error(err))
		return ""
	}

	zipPath := filepath.Join(workDir, "evidence.zip")
	if err := uc.zipper.CreateZip(ctx, framePaths, zipPath); err != nil {
		log.Warn("evidence zip failed", zap.Error(err))
		return ""
	}

	zipFile, err := os.Open(zipPath)
	if err != nil {
		log.Warn("evidence zip open failed", zap.Error(err))
		return ""
	}
	defer zipFile.Close()
	zipStat, err := zipFile.Stat()
	if err != nil {
		log.Warn("evidence zip stat failed", zap.Error(err))
		return ""
	}

	evidenceKey := fmt.Sprintf("evidence/%s.zip", job.ID.String())
	if err := uc.storage.UploadEvidence(ctx, evidenceKey, zipFile, zipStat.Size()); err != nil {
		log.Warn("evidence upload failed", zap.Error(err))
		return ""
	}

	metrics.JobProcessingDuration.WithLabelValues("evidence").Observe(time.Since(evStart).Seconds())
	log.Info("evidence bundle uploaded",
		zap.String("evidence_key", evidenceKey),
		zap.Int("frames", len(framePaths)),
	)
	return evidenceKey
}

func (uc *AnalyzeVideoUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.VideoAnalysisMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *AnalyzeVideoUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.AnalysisJob,
	msg entity.VideoAnalysisMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	to := msg.UserEmail
	if to == "" {
		to = uc.fallbackEmail
	}
	if to != "" {
		_ = uc.notifier.NotifyFailure(ctx, to, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *AnalyzeVideoUseCase) publishStatus(ctx context.Context, job *entity.AnalysisJob, log *zap.Logger) {
	statusMsg := entity.AnalysisStatusMessage{
		JobID:                  job.ID,
		UserID:                 job.UserID,
		Status:                 job.Status,
		VideoKey:               job.VideoKey,
		Classification:         job.Classification,
		DeepfakeScore:          job.DeepfakeScore,
		VerificationStatus:     job.VerificationStatus,
		VerificationConfidence: job.VerificationConfidence,
		EvidenceKey:            job.EvidenceKey,
		FramesAnalyzed:         job.FramesAnalyzed,
		ErrorMessage:           job.ErrorMessage,
		Attempt:                job.Attempt,
		MaxAttempts:            job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
