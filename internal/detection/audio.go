package detection

import (
	"math"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

const (
	audioFloorDB     = -60.0
	speechDynamicsDB = 12.0
)

// AnalyzeAudio derives manipulation heuristics from program-volume
// measurements. Synthetic voice tracks tend to sit unnaturally flat or
// unnaturally hot against natural speech dynamics.
func AnalyzeAudio(stats *port.AudioStats) entity.SignalReport {
	quality := vision.Clamp01((stats.MeanVolumeDB - audioFloorDB) / -audioFloorDB)
	dynamics := stats.MaxVolumeDB - stats.MeanVolumeDB
	voice := 1.0 / (1.0 + math.Abs(dynamics-speechDynamicsDB)/speechDynamicsDB)
	manipulation := vision.Clamp01(1.0 - (0.6*voice + 0.4*quality))

	return entity.SignalReport{
		"audio_manipulation_score": manipulation,
		"voice_consistency":        voice,
		"audio_quality":            quality,
	}
}

// neutralAudioReport is the fallback when the audio stream cannot be
// measured: every metric sits at the midpoint so fusion is unaffected.
func neutralAudioReport() entity.SignalReport {
	return entity.SignalReport{
		"audio_manipulation_score": 0.5,
		"voice_consistency":        0.5,
		"audio_quality":            0.5,
	}
}
