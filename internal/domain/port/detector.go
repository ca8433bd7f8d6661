package port

import "image"

// FaceDetector locates face regions in a luma plane.
type FaceDetector interface {
	DetectFaces(g *image.Gray) []image.Rectangle
}
