package vision

import (
	"image"
	"image/draw"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Frame is one decoded video frame tagged with its ordinal position in
// the sampled sequence.
type Frame struct {
	Index int
	Image *image.RGBA
}

// DecodeFrame decodes an encoded image into a Frame. The registered
// stdlib decoders (png, jpeg) must be imported by the caller's binary.
func DecodeFrame(r io.Reader, index int) (Frame, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Index: index, Image: ToRGBA(img)}, nil
}

// ToRGBA normalizes any decoded image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Luminance returns the BT.601 luma plane of the frame image.
func Luminance(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride:]
		dst := g.Pix[y*g.Stride:]
		for x := 0; x < b.Dx(); x++ {
			r := uint32(src[x*4])
			gr := uint32(src[x*4+1])
			bl := uint32(src[x*4+2])
			dst[x] = uint8((19595*r + 38470*gr + 7471*bl + 1<<15) >> 16)
		}
	}
	return g
}

// MeanLuminance returns the average luma value of the plane.
func MeanLuminance(g *image.Gray) float64 {
	b := g.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < b.Dy(); y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+b.Dx()]
		for _, v := range row {
			sum += uint64(v)
		}
	}
	return float64(sum) / float64(b.Dx()*b.Dy())
}

// Downscale returns the plane scaled so its longer side is at most
// maxSide pixels. Planes already within bounds are returned unchanged.
func Downscale(g *image.Gray, maxSide int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return g
	}
	scale := float64(maxSide) / float64(w)
	if h > w {
		scale = float64(maxSide) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), g, b, xdraw.Src, nil)
	return dst
}
