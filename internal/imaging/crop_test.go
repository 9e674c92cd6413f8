package imaging

import (
	"image"
	"image/color"
	"testing"
)

// solidImage creates an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// quadrantImage creates an image with a different color in each quadrant.
func quadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestClampRegion(t *testing.T) {
	tests := []struct {
		name string
		in   Region
		want Region
	}{
		{"inside", Region{10, 10, 20, 20}, Region{10, 10, 20, 20}},
		{"negative origin and tall", Region{-10, 5, 50, 9999}, Region{0, 5, 50, 95}},
		{"too wide", Region{80, 0, 50, 10}, Region{80, 0, 20, 10}},
		{"zero size", Region{10, 10, 0, 0}, Region{10, 10, 1, 1}},
		{"negative size", Region{10, 10, -5, -5}, Region{10, 10, 1, 1}},
		{"origin past edge", Region{150, 150, 10, 10}, Region{100, 100, 1, 1}},
		{"full frame", Region{0, 0, 100, 100}, Region{0, 0, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampRegion(tt.in, 100, 100)
			if got != tt.want {
				t.Errorf("ClampRegion(%+v): got %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampRegion_StaysInBounds(t *testing.T) {
	const w, h = 100, 100
	regions := []Region{
		{-10, 5, 50, 9999},
		{99, 99, 5, 5},
		{-500, -500, 1000, 1000},
		{0, 0, 1, 1},
		{42, 17, 3, 200},
	}

	for _, r := range regions {
		c := ClampRegion(r, w, h)
		if c.X < 0 || c.Y < 0 {
			t.Errorf("%+v: negative origin %+v", r, c)
		}
		if c.W < 1 || c.H < 1 {
			t.Errorf("%+v: empty size %+v", r, c)
		}
		if c.X+c.W > w || c.Y+c.H > h {
			t.Errorf("%+v: %+v exceeds %dx%d", r, c, w, h)
		}
	}
}

func TestCropRegion(t *testing.T) {
	img := quadrantImage(100, 100)

	cropped, clamped := CropRegion(img, Region{X: 60, Y: 10, W: 20, H: 20})
	if clamped != (Region{60, 10, 20, 20}) {
		t.Errorf("clamped: got %+v", clamped)
	}

	b := cropped.Bounds()
	if b.Min != (image.Point{}) || b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("bounds: got %v, want (0,0)-(20,20)", b)
	}

	r, g, bl, _ := cropped.At(5, 5).RGBA()
	if r>>8 != 0 || g>>8 != 255 || bl>>8 != 0 {
		t.Errorf("expected green from top-right quadrant, got (%d,%d,%d)", r>>8, g>>8, bl>>8)
	}
}

func TestCropRegion_Clamped(t *testing.T) {
	img := quadrantImage(100, 100)

	cropped, clamped := CropRegion(img, Region{X: -10, Y: 5, W: 50, H: 9999})
	if clamped != (Region{0, 5, 50, 95}) {
		t.Errorf("clamped: got %+v", clamped)
	}
	if cropped.Bounds().Dx() != 50 || cropped.Bounds().Dy() != 95 {
		t.Errorf("size: got %v", cropped.Bounds())
	}
}

func TestCropRegion_OffsetBounds(t *testing.T) {
	// A capture of a secondary display may not start at the origin.
	base := quadrantImage(100, 100)
	img := base.SubImage(image.Rect(50, 50, 100, 100))

	cropped, _ := CropRegion(img, Region{X: 0, Y: 0, W: 10, H: 10})
	r, g, b, _ := cropped.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("expected white bottom-right quadrant, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestCropRegion_OriginPastEdge(t *testing.T) {
	img := solidImage(100, 100, color.White)

	cropped, _ := CropRegion(img, Region{X: 200, Y: 0, W: 10, H: 10})
	if !cropped.Bounds().Empty() {
		t.Errorf("expected empty crop, got %v", cropped.Bounds())
	}
}
