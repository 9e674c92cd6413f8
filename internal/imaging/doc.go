// Package imaging provides the image operations behind region scanning.
//
// It covers three concerns:
//   - Region geometry: ClampRegion fits a calibrated rectangle into a frame
//     of any resolution, CropRegion extracts it.
//   - OCR preprocessing: Preprocess converts a crop into an upscaled,
//     binarized, inverted image suited to Tesseract's single-line mode.
//   - Calibration aids: DrawRegions renders configured regions over a frame,
//     RegionLevels reports how bright a region is against the threshold and
//     ImageCache replays saved screenshots.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner of
// the frame; X grows rightward and Y downward. A Region is given by its
// top-left corner and its width and height.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and never modify their input image.
package imaging
