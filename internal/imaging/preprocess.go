package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Preprocessing defaults, tuned for light UI text on the game's dark panels.
const (
	// DefaultThreshold is the luminance (0-255) a pixel must exceed to be
	// treated as text.
	DefaultThreshold = 180

	// DefaultUpscale is the factor small crops are enlarged by before OCR.
	DefaultUpscale = 2.0
)

// PreprocessOptions controls Preprocess.
type PreprocessOptions struct {
	// Threshold is the binarization level; pixels strictly brighter become
	// foreground.
	Threshold uint8

	// Upscale is the resize factor. Values <= 0 or 1 leave the size as is.
	Upscale float64
}

// DefaultPreprocessOptions returns the defaults used by the scanner.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Threshold: DefaultThreshold,
		Upscale:   DefaultUpscale,
	}
}

// Preprocess prepares a cropped region for single-line OCR.
//
// The pipeline is:
//  1. Grayscale (ITU-R BT.601 luma)
//  2. Upscale with Catmull-Rom (cubic) interpolation
//  3. Binarize: luma > Threshold -> foreground, else background
//  4. Invert, giving dark text (0) on a light background (255)
//
// The result is a single-channel image. An empty input yields an empty image.
func Preprocess(img image.Image, opts PreprocessOptions) *image.Gray {
	if img.Bounds().Empty() {
		return image.NewGray(image.Rectangle{})
	}

	gray := imaging.Grayscale(img)
	scaled := Upscale(gray, opts.Upscale)
	return threshold(scaled, opts.Threshold, 0x00, 0xFF)
}

// Upscale resizes img by factor using cubic interpolation.
func Upscale(img image.Image, factor float64) *image.NRGBA {
	if factor <= 0 || factor == 1 {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}

// Binarize maps pixels with luma strictly above level to white and all
// others to black. The result starts at (0,0).
func Binarize(img image.Image, level uint8) *image.Gray {
	return threshold(img, level, 0xFF, 0x00)
}

// threshold writes above for pixels whose luma exceeds level and below for
// the rest. Luma is computed in integers so a gray pixel keeps its exact
// value: v == level is below, v == level+1 is above.
func threshold(img image.Image, level, above, below uint8) *image.Gray {
	src := clone.AsShallowRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			for x := range out {
				p := row[x*4 : x*4+3]
				if luma601(p[0], p[1], p[2]) > level {
					out[x] = above
				} else {
					out[x] = below
				}
			}
		}
	})
	return dst
}

// luma601 is the rounded BT.601 luma of an RGB triple; r == g == b yields r.
func luma601(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
