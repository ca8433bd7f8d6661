package vision

import (
	"image"
	"math"
)

const (
	flowMaxSide     = 256
	flowBlockSize   = 16
	flowSearchRange = 7
)

// MeanFlowMagnitude estimates dense motion between two luma planes by
// block matching and returns the mean displacement magnitude in
// pixels. Planes larger than 256px on a side are downscaled first, so
// magnitudes are relative to that working resolution. Mismatched or
// degenerate plane sizes yield 0.
func MeanFlowMagnitude(prev, next *image.Gray) float64 {
	prev = Downscale(prev, flowMaxSide)
	next = Downscale(next, flowMaxSide)
	pb, nb := prev.Bounds(), next.Bounds()
	if pb.Dx() != nb.Dx() || pb.Dy() != nb.Dy() {
		return 0
	}
	w, h := pb.Dx(), pb.Dy()
	if w < flowBlockSize || h < flowBlockSize {
		return 0
	}

	var magnitudes []float64
	margin := flowSearchRange
	for by := margin; by+flowBlockSize <= h-margin; by += flowBlockSize {
		for bx := margin; bx+flowBlockSize <= w-margin; bx += flowBlockSize {
			dx, dy := matchBlock(prev, next, bx, by)
			magnitudes = append(magnitudes, math.Hypot(float64(dx), float64(dy)))
		}
	}
	return Mean(magnitudes)
}

// matchBlock finds the displacement of the block at (bx, by) in prev
// that best matches next. Ties keep the smaller displacement so static
// content reports zero motion.
func matchBlock(prev, next *image.Gray, bx, by int) (int, int) {
	best := blockSAD(prev, next, bx, by, 0, 0)
	bestDX, bestDY := 0, 0
	if best == 0 {
		return 0, 0
	}
	for dy := -flowSearchRange; dy <= flowSearchRange; dy++ {
		for dx := -flowSearchRange; dx <= flowSearchRange; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cost := blockSAD(prev, next, bx, by, dx, dy)
			if cost < best {
				best = cost
				bestDX, bestDY = dx, dy
				if best == 0 {
					return bestDX, bestDY
				}
			}
		}
	}
	return bestDX, bestDY
}

func blockSAD(prev, next *image.Gray, bx, by, dx, dy int) int {
	sad := 0
	for y := 0; y < flowBlockSize; y++ {
		prow := prev.Pix[(by+y)*prev.Stride:]
		nrow := next.Pix[(by+y+dy)*next.Stride:]
		for x := 0; x < flowBlockSize; x++ {
			d := int(prow[bx+x]) - int(nrow[bx+x+dx])
			if d < 0 {
				d = -d
			}
			sad += d
		}
	}
	return sad
}
