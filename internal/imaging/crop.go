package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in screen-pixel coordinates, given as its top-left
// corner and size.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// ClampRegion fits r into an image of the given size.
//
// Regions are calibrated against one display resolution and may not fit
// another. The origin is clamped into [0, width] x [0, height] and the size
// to at least 1 pixel and at most what remains to the right/bottom edge:
//
//	x' = clamp(x, 0, width)      w' = clamp(w, 1, width-x')
//	y' = clamp(y, 0, height)     h' = clamp(h, 1, height-y')
//
// where clamp(v, lo, hi) = max(lo, min(v, hi)). When the origin lands on the
// far edge the result is 1 pixel wide/high but lies outside the image;
// CropRegion then yields an empty image.
func ClampRegion(r Region, width, height int) Region {
	x := clamp(r.X, 0, width)
	y := clamp(r.Y, 0, height)
	return Region{
		X: x,
		Y: y,
		W: clamp(r.W, 1, width-x),
		H: clamp(r.H, 1, height-y),
	}
}

// CropRegion clamps r to img and extracts it.
//
// Coordinates are relative to the image origin, so a capture whose bounds
// do not start at (0,0) is handled the same way as one that does. The
// returned image always starts at (0,0).
func CropRegion(img image.Image, r Region) (*image.NRGBA, Region) {
	bounds := img.Bounds()
	c := ClampRegion(r, bounds.Dx(), bounds.Dy())
	rect := c.Rect().Add(bounds.Min)
	return imaging.Crop(img, rect), c
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
