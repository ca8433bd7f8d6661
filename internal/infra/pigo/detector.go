package pigo

import (
	"fmt"
	"image"
	"os"

	pigocore "github.com/esimov/pigo/core"
)

const (
	minFaceSize  = 20
	shiftFactor  = 0.1
	scaleFactor  = 1.1
	clusterIOU   = 0.2
	qualityFloor = 5.0
)

// Detector locates faces in luma planes using a pico cascade.
type Detector struct {
	classifier *pigocore.Pigo
}

// NewDetector unpacks the binary cascade at cascadePath.
func NewDetector(cascadePath string) (*Detector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", cascadePath, err)
	}
	classifier, err := pigocore.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &Detector{classifier: classifier}, nil
}

func (d *Detector) DetectFaces(g *image.Gray) []image.Rectangle {
	b := g.Bounds()
	rows, cols := b.Dy(), b.Dx()
	if rows < minFaceSize || cols < minFaceSize {
		return nil
	}

	maxSize := rows
	if cols < rows {
		maxSize = cols
	}
	params := pigocore.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigocore.ImageParams{
			Pixels: tightPixels(g),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, clusterIOU)

	var faces []image.Rectangle
	for _, det := range dets {
		if det.Q < qualityFloor {
			continue
		}
		half := det.Scale / 2
		faces = append(faces, image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half))
	}
	return faces
}

// tightPixels returns the plane's pixels with rows packed at exactly
// one stride per column count.
func tightPixels(g *image.Gray) []uint8 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if g.Stride == w {
		return g.Pix[:w*h]
	}
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		copy(out[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
	}
	return out
}
