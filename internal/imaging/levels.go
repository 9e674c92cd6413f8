package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Levels summarises the brightness of a region, for choosing a threshold.
type Levels struct {
	Min  uint8   `json:"min"`
	Max  uint8   `json:"max"`
	Mean float64 `json:"mean"`

	// Lit is the percentage of pixels brighter than the threshold, i.e. the
	// share Preprocess would treat as text.
	Lit float64 `json:"lit"`
}

// RegionLevels measures the luminance histogram of r (clamped to img).
func RegionLevels(img image.Image, r Region, threshold uint8) Levels {
	crop, _ := CropRegion(img, r)
	if crop.Bounds().Empty() {
		return Levels{}
	}

	// Normalised: the bins sum to 1.
	hist := imaging.Histogram(crop)

	var lv Levels
	first := true
	for v, share := range hist {
		if share == 0 {
			continue
		}
		if first {
			lv.Min = uint8(v)
			first = false
		}
		lv.Max = uint8(v)
		lv.Mean += float64(v) * share
		if v > int(threshold) {
			lv.Lit += share * 100
		}
	}
	return lv
}
