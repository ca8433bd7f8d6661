package port

import "context"

// MediaInfo is the container-level description of a video file.
type MediaInfo struct {
	TotalFrames int
	Duration    float64
	FrameRate   float64
	Tags        map[string]string
}

// MediaProber inspects a video container without decoding it.
type MediaProber interface {
	Probe(ctx context.Context, videoPath string) (*MediaInfo, error)
}

// AudioStats are program-volume measurements over one audio stream.
type AudioStats struct {
	MeanVolumeDB float64
	MaxVolumeDB  float64
}

// AudioProber measures an audio stream.
type AudioProber interface {
	ProbeAudio(ctx context.Context, audioPath string) (*AudioStats, error)
}
