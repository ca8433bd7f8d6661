package vision

import "image"

// HighPassKernel is the 3x3 Laplacian-style kernel used to expose
// block-boundary compression residue.
var HighPassKernel = [9]int{
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
}

// Convolve3x3 applies k to the interior of the plane and returns the
// responses saturated to the 8-bit range.
func Convolve3x3(g *image.Gray, k [9]int) []float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return nil
	}
	out := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		up := g.Pix[(y-1)*g.Stride:]
		mid := g.Pix[y*g.Stride:]
		down := g.Pix[(y+1)*g.Stride:]
		for x := 1; x < w-1; x++ {
			v := k[0]*int(up[x-1]) + k[1]*int(up[x]) + k[2]*int(up[x+1]) +
				k[3]*int(mid[x-1]) + k[4]*int(mid[x]) + k[5]*int(mid[x+1]) +
				k[6]*int(down[x-1]) + k[7]*int(down[x]) + k[8]*int(down[x+1])
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out = append(out, float64(v))
		}
	}
	return out
}

// EdgeDensity returns the share of interior pixels whose gradient
// magnitude |dx|+|dy| exceeds the threshold.
func EdgeDensity(g *image.Gray, threshold int) float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}
	edges := 0
	for y := 1; y < h-1; y++ {
		up := g.Pix[(y-1)*g.Stride:]
		mid := g.Pix[y*g.Stride:]
		down := g.Pix[(y+1)*g.Stride:]
		for x := 1; x < w-1; x++ {
			dx := int(mid[x+1]) - int(mid[x-1])
			if dx < 0 {
				dx = -dx
			}
			dy := int(down[x]) - int(up[x])
			if dy < 0 {
				dy = -dy
			}
			if dx+dy > threshold {
				edges++
			}
		}
	}
	return float64(edges) / float64((w-2)*(h-2))
}

// RowJumpCounts returns, per row, how many horizontal neighbor pairs
// differ by more than the threshold. Dense mid-range rows are the
// signature of rendered text bands.
func RowJumpCounts(g *image.Gray, threshold int) []int {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2 {
		return nil
	}
	counts := make([]int, h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		n := 0
		for x := 1; x < w; x++ {
			d := int(row[x]) - int(row[x-1])
			if d < 0 {
				d = -d
			}
			if d > threshold {
				n++
			}
		}
		counts[y] = n
	}
	return counts
}
