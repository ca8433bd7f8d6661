package geospatial

import (
	"sort"
	"time"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
)

const suspicionThreshold = 0.5

// Pattern names as they appear in manipulation reports.
const (
	PatternGPSJump           = "gps_jump"
	PatternTimestampMismatch = "timestamp_mismatch"
	PatternAccuracyAnomaly   = "accuracy_anomaly"
	PatternSatelliteAnomaly  = "satellite_anomaly"
)

// DetectManipulation scores known GPS tampering patterns against one
// metadata record. now anchors the timestamp staleness check.
func DetectManipulation(meta *entity.GPSMetadata, now time.Time) *entity.ManipulationReport {
	scores := entity.SignalReport{
		PatternGPSJump:           0.1,
		PatternTimestampMismatch: timestampScore(meta.Timestamp, now),
		PatternAccuracyAnomaly:   accuracyScore(meta.Accuracy),
		PatternSatelliteAnomaly:  satelliteScore(meta.Satellites),
	}

	var sum float64
	suspicious := make([]string, 0, len(scores))
	for name, score := range scores {
		sum += score
		if score > suspicionThreshold {
			suspicious = append(suspicious, name)
		}
	}
	sort.Strings(suspicious)

	return &entity.ManipulationReport{
		PatternScores:      scores,
		OverallProbability: sum / float64(len(scores)),
		SuspiciousPatterns: suspicious,
	}
}

// timestampScore flags recordings whose GPS clock sits more than a day
// away from the wall clock.
func timestampScore(ts *time.Time, now time.Time) float64 {
	if ts == nil {
		return 0.5
	}
	drift := now.Sub(*ts)
	if drift < 0 {
		drift = -drift
	}
	if drift > 24*time.Hour {
		return 0.8
	}
	return 0.1
}

// accuracyScore flags implausibly precise fixes (spoofers love exact
// coordinates) and uselessly loose ones.
func accuracyScore(accuracy *float64) float64 {
	switch {
	case accuracy == nil:
		return 0.5
	case *accuracy < 1.0:
		return 0.7
	case *accuracy > 50.0:
		return 0.6
	default:
		return 0.1
	}
}

// satelliteScore flags fix geometry no real receiver would report.
func satelliteScore(satellites *int) float64 {
	switch {
	case satellites == nil:
		return 0.5
	case *satellites < 4:
		return 0.8
	case *satellites > 12:
		return 0.6
	default:
		return 0.1
	}
}
