// Package visiontest builds deterministic frames for analyzer tests.
package visiontest

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/deepsecure/deepsecure-analysis-service/internal/vision"
)

// Uniform returns a solid-color frame.
func Uniform(index, w, h int, c color.RGBA) vision.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return vision.Frame{Index: index, Image: img}
}

// Checkerboard returns a frame tiled with cell-sized squares, shifted
// horizontally by shift pixels. Shifting between frames fakes motion.
func Checkerboard(index, w, h, cell, shift int) vision.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := x - shift
			if sx < 0 {
				sx += ((-sx)/w + 1) * w
			}
			c := color.RGBA{A: 255}
			if (sx/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return vision.Frame{Index: index, Image: img}
}

// Noise returns a seeded pseudo-random frame.
func Noise(index, w, h int, seed int64) vision.Frame {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return vision.Frame{Index: index, Image: img}
}

// Uniforms returns n identical solid-gray frames indexed 0..n-1.
func Uniforms(n, w, h int, value uint8) []vision.Frame {
	frames := make([]vision.Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, Uniform(i, w, h, color.RGBA{R: value, G: value, B: value, A: 255}))
	}
	return frames
}
