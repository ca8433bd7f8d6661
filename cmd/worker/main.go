package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/analysis"
	"github.com/deepsecure/deepsecure-analysis-service/internal/detection"
	"github.com/deepsecure/deepsecure-analysis-service/internal/geospatial"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/config"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/email"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/ffmpeg"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/metrics"
	miniostorage "github.com/deepsecure/deepsecure-analysis-service/internal/infra/minio"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/pigo"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/postgres"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/rabbitmq"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/tracing"
	"github.com/deepsecure/deepsecure-analysis-service/internal/usecase"
	"github.com/deepsecure/deepsecure-analysis-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting deepsecure-analysis-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	shutdownTracing, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	if err := postgres.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:       cfg.MinIOEndpoint,
		AccessKey:      cfg.MinIOAccessKey,
		SecretKey:      cfg.MinIOSecretKey,
		UseSSL:         cfg.MinIOUseSSL,
		UploadBucket:   cfg.MinIOUploadBucket,
		EvidenceBucket: cfg.MinIOEvidenceBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")
	defer pub.Close()

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// Infra adapters
	repo := postgres.NewJobRepository(pool)
	prober := ffmpeg.NewProber(log)
	sampler := ffmpeg.NewSampler(prober, cfg.TempDir, log)
	audioProber := ffmpeg.NewAudioProber()
	zipper := ffmpeg.NewZipCreator()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	faceDetector, err := pigo.NewDetector(cfg.FaceCascadePath)
	fatalOnErr(err, "load face cascade")

	// Analysis engines
	deepfakeEngine := detection.NewEngine(sampler, faceDetector, audioProber, cfg.MaxFrames, log)
	gpsExtractor := geospatial.NewExtractor(prober, log)
	geoEngine := geospatial.NewEngine(gpsExtractor, sampler, cfg.LocationMaxFrames, log)
	pipeline := analysis.NewPipeline(deepfakeEngine, geoEngine)

	// Use case
	uc := usecase.NewAnalyzeVideoUseCase(
		repo, storage, pipeline, sampler, zipper,
		statusPub, dlqPub, notifier,
		log,
		usecase.AnalyzeVideoConfig{
			TempDir:       cfg.TempDir,
			MaxRetries:    cfg.MaxRetries,
			MaxFrames:     cfg.MaxFrames,
			JobTimeout:    time.Duration(cfg.JobTimeoutSec) * time.Second,
			FallbackEmail: cfg.NotificationTo,
		},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log)

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQAnalysisQueue,
		Exchange:    cfg.RabbitMQExchange,
		DLQ:         cfg.RabbitMQDLQ,
		StatusQueue: cfg.RabbitMQStatusQueue,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("deepsecure-analysis-service started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	// Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("deepsecure-analysis-service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
