package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepsecure_jobs_processed_total",
		Help: "Total number of analysis jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deepsecure_job_processing_duration_seconds",
		Help:    "Duration of analysis pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepsecure_analyses_total",
		Help: "Per-pipeline analysis outcomes",
	}, []string{"pipeline", "outcome"})

	FramesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deepsecure_frames_analyzed_total",
		Help: "Total number of frames analyzed across all jobs",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deepsecure_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepsecure_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})
)
