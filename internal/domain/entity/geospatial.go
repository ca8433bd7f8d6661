package entity

import "time"

// VerificationStatus is the geospatial verdict for one video.
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationUncertain  VerificationStatus = "uncertain"
	VerificationSuspicious VerificationStatus = "suspicious"
	VerificationFailed     VerificationStatus = "failed"
	VerificationError      VerificationStatus = "error"
)

// GPSMetadata is the location record embedded in a video container or
// its sidecar thumbnail. Nil pointer fields mean the source did not
// carry that tag.
type GPSMetadata struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Altitude   *float64   `json:"altitude,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	Satellites *int       `json:"satellites,omitempty"`
	DeviceInfo string     `json:"device_info,omitempty"`
}

// LocationReport scores how internally consistent the visual scene is
// with a single filming location.
type LocationReport struct {
	ConsistencyScore float64      `json:"consistency_score"`
	Indicators       SignalReport `json:"location_indicators"`
	Method           string       `json:"verification_method"`
}

// ManipulationReport scores known GPS tampering patterns.
type ManipulationReport struct {
	PatternScores      SignalReport `json:"manipulation_scores"`
	OverallProbability float64      `json:"overall_manipulation_probability"`
	SuspiciousPatterns []string     `json:"suspicious_patterns"`
}

// GeospatialResult is the fused outcome of the geospatial verification
// pipeline for one video.
type GeospatialResult struct {
	Status              VerificationStatus  `json:"verification_status"`
	Confidence          float64             `json:"verification_confidence"`
	GPSMetadata         *GPSMetadata        `json:"gps_metadata,omitempty"`
	LocationConsistency *LocationReport     `json:"location_consistency,omitempty"`
	GPSManipulation     *ManipulationReport `json:"gps_manipulation,omitempty"`
	Methods             []string            `json:"verification_methods,omitempty"`
	ProcessingTime      float64             `json:"processing_time"`
	Error               string              `json:"error,omitempty"`
}
