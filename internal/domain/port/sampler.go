package port

import (
	"context"

	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// FrameSampler decodes an evenly strided subset of a video's frames.
// Unreadable input yields an empty slice, never an error: zero frames
// is valid analyzer input.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath string, maxFrames int) []vision.Frame
}

// FrameExporter re-extracts the source frames behind sampled indices
// as image files, for evidence bundles.
type FrameExporter interface {
	ExportFrames(ctx context.Context, videoPath string, sampleIdx []int, maxFrames int, outputDir string) ([]string, error)
}
