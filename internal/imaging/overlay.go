package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabeledRegion is a region with the name it is configured under.
type LabeledRegion struct {
	Label  string
	Region Region
}

// outlineWidth is the thickness of region outlines in pixels.
const outlineWidth = 2

// DrawRegions returns a copy of img with every region outlined and labeled.
//
// Regions are clamped exactly as the scanner clamps them, so the overlay
// shows what will actually be read. Each region gets its own hue, spread
// evenly around the color wheel.
func DrawRegions(img image.Image, regions []LabeledRegion) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for i, lr := range regions {
		c := RegionColor(i, len(regions))
		r := ClampRegion(lr.Region, bounds.Dx(), bounds.Dy()).Rect()
		drawOutline(result, r, c)
		drawLabel(result, r.Min.X, r.Min.Y-4, lr.Label, c)
	}

	return result
}

// RegionColor returns the outline color for region i of n.
func RegionColor(i, n int) color.RGBA {
	if n <= 0 {
		n = 1
	}
	hue := float64(i%n) * 360.0 / float64(n)
	r, g, b := colorful.Hsv(hue, 0.85, 1.0).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	bounds := img.Bounds()
	for t := 0; t < outlineWidth; t++ {
		for x := r.Min.X - t; x < r.Max.X+t; x++ {
			setIn(img, bounds, x, r.Min.Y-t-1, c)
			setIn(img, bounds, x, r.Max.Y+t, c)
		}
		for y := r.Min.Y - t - 1; y <= r.Max.Y+t; y++ {
			setIn(img, bounds, r.Min.X-t-1, y, c)
			setIn(img, bounds, r.Max.X+t, y, c)
		}
	}
}

func setIn(img *image.RGBA, bounds image.Rectangle, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(bounds) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel draws text with its baseline at (x, y), moving it inside the
// image when the region touches the top edge.
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	face := basicfont.Face7x13
	if y < face.Ascent {
		y = face.Ascent
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
