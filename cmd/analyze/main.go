package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/deepsecure/deepsecure-analysis-service/internal/analysis"
	"github.com/deepsecure/deepsecure-analysis-service/internal/detection"
	"github.com/deepsecure/deepsecure-analysis-service/internal/geospatial"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/ffmpeg"
	"github.com/deepsecure/deepsecure-analysis-service/internal/infra/pigo"
	"github.com/deepsecure/deepsecure-analysis-service/pkg/logger"
)

// analyze runs both authenticity pipelines over a local video file and
// prints the unified report. No broker, database or object storage is
// involved; useful for spot checks and tuning.
func main() {
	var (
		videoPath   = flag.String("video", "", "Path to the video file to analyze")
		audioPath   = flag.String("audio", "", "Optional path to a sidecar audio file")
		cascadePath = flag.String("cascade", "./models/facefinder", "Path to the pigo face cascade")
		maxFrames   = flag.Int("max-frames", 100, "Frame cap for deepfake analysis")
		geoFrames   = flag.Int("geo-frames", 20, "Frame cap for geospatial verification")
		logLevel    = flag.String("log-level", "warn", "Log verbosity")
	)
	flag.Parse()

	if *videoPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -video <path> [-audio <path>] [-cascade <path>]")
		os.Exit(2)
	}

	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	faceDetector, err := pigo.NewDetector(*cascadePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load face cascade:", err)
		os.Exit(1)
	}

	prober := ffmpeg.NewProber(log)
	sampler := ffmpeg.NewSampler(prober, os.TempDir(), log)
	audioProber := ffmpeg.NewAudioProber()

	deepfakeEngine := detection.NewEngine(sampler, faceDetector, audioProber, *maxFrames, log)
	gpsExtractor := geospatial.NewExtractor(prober, log)
	geoEngine := geospatial.NewEngine(gpsExtractor, sampler, *geoFrames, log)
	pipeline := analysis.NewPipeline(deepfakeEngine, geoEngine)

	report := pipeline.Run(context.Background(), *videoPath, *audioPath)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode report:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
