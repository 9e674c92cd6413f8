package imaging

import (
	"image/color"
	"math"
	"testing"
)

func TestRegionLevels(t *testing.T) {
	// Left half white, right half black.
	img := solidImage(100, 10, color.Black)
	for y := 0; y < 10; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.White)
		}
	}

	lv := RegionLevels(img, Region{X: 25, Y: 0, W: 50, H: 10}, DefaultThreshold)
	if lv.Min != 0 || lv.Max != 255 {
		t.Errorf("range: got %d-%d, want 0-255", lv.Min, lv.Max)
	}
	if math.Abs(lv.Mean-127.5) > 0.5 {
		t.Errorf("mean: got %v, want ~127.5", lv.Mean)
	}
	if math.Abs(lv.Lit-50) > 0.01 {
		t.Errorf("lit: got %v, want 50", lv.Lit)
	}
}

func TestRegionLevels_Uniform(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{150, 150, 150, 255})

	lv := RegionLevels(img, Region{X: 0, Y: 0, W: 20, H: 20}, DefaultThreshold)
	if lv.Min != lv.Max {
		t.Errorf("uniform region: min %d != max %d", lv.Min, lv.Max)
	}
	if lv.Lit != 0 {
		t.Errorf("gray below threshold: lit %v, want 0", lv.Lit)
	}
}

func TestRegionLevels_OutsideImage(t *testing.T) {
	img := solidImage(20, 20, color.White)

	lv := RegionLevels(img, Region{X: 50, Y: 50, W: 5, H: 5}, DefaultThreshold)
	if lv != (Levels{}) {
		t.Errorf("expected zero levels, got %+v", lv)
	}
}
