package vision_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
	"github.com/deepsecure/deepsecure-analysis-service/internal/vision/visiontest"
)

func TestConvolve3x3FlatIsZero(t *testing.T) {
	frame := visiontest.Uniform(0, 32, 32, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	out := vision.Convolve3x3(vision.Luminance(frame.Image), vision.HighPassKernel)
	require.Len(t, out, 30*30)
	for _, v := range out {
		assert.Equal(t, 0.0, v)
	}
}

func TestConvolve3x3RespondsToStructure(t *testing.T) {
	frame := visiontest.Checkerboard(0, 32, 32, 2, 0)
	out := vision.Convolve3x3(vision.Luminance(frame.Image), vision.HighPassKernel)
	require.NotEmpty(t, out)
	assert.Greater(t, vision.Max(out), 0.0)
	assert.LessOrEqual(t, vision.Max(out), 255.0)
}

func TestConvolve3x3TinyPlane(t *testing.T) {
	frame := visiontest.Uniform(0, 2, 2, color.RGBA{A: 255})
	assert.Nil(t, vision.Convolve3x3(vision.Luminance(frame.Image), vision.HighPassKernel))
}

func TestEdgeDensity(t *testing.T) {
	flat := visiontest.Uniform(0, 32, 32, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	assert.Equal(t, 0.0, vision.EdgeDensity(vision.Luminance(flat.Image), 30))

	board := visiontest.Checkerboard(0, 32, 32, 4, 0)
	density := vision.EdgeDensity(vision.Luminance(board.Image), 30)
	assert.Greater(t, density, 0.0)
	assert.LessOrEqual(t, density, 1.0)
}

func TestRowJumpCounts(t *testing.T) {
	board := visiontest.Checkerboard(0, 32, 8, 4, 0)
	counts := vision.RowJumpCounts(vision.Luminance(board.Image), 30)
	require.Len(t, counts, 8)
	// every row of a 4px checkerboard crosses seven cell boundaries
	for _, n := range counts {
		assert.Equal(t, 7, n)
	}
}
