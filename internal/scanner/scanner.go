// Package scanner reads short text strings, such as player names, from
// fixed rectangles of the game screen.
//
// A scan captures one frame, then for every region of the requested scene
// clamps the rectangle to the frame, crops it, binarises it for Tesseract
// and recognises a single line of text. Regions are calibrated against one
// display layout, so out-of-range coordinates are clamped rather than
// rejected, and a failure in one region yields empty text instead of
// failing the scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ironsheep/er-advisor/internal/capture"
	"github.com/ironsheep/er-advisor/internal/imaging"
	"github.com/ironsheep/er-advisor/internal/ocr"
)

// ErrNoRegions is returned when neither the requested scene nor the default
// scene has any regions.
var ErrNoRegions = errors.New("no regions configured")

// SceneError reports a scene that could not be resolved.
type SceneError struct {
	Scene string
	Err   error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene %q: %v", e.Scene, e.Err)
}

func (e *SceneError) Unwrap() error { return e.Err }

// Result maps region labels to recognised text. Text is trimmed and may be
// empty.
type Result map[string]string

// Scanner runs region scans. It is not safe for concurrent use: the OCR
// engine it owns is single-threaded.
type Scanner struct {
	scenes   SceneMap
	capturer capture.Capturer
	engine   ocr.Recognizer
	prep     imaging.PreprocessOptions
	logger   *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger for per-region diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThreshold sets the brightness above which a pixel counts as text.
func WithThreshold(threshold uint8) Option {
	return func(s *Scanner) { s.prep.Threshold = threshold }
}

// WithUpscale sets the factor crops are enlarged by before OCR.
func WithUpscale(factor float64) Option {
	return func(s *Scanner) {
		if factor > 0 {
			s.prep.Upscale = factor
		}
	}
}

// New creates a Scanner. The scanner does not take ownership of engine.
func New(scenes SceneMap, capturer capture.Capturer, engine ocr.Recognizer, opts ...Option) *Scanner {
	s := &Scanner{
		scenes:   scenes,
		capturer: capturer,
		engine:   engine,
		prep:     imaging.DefaultPreprocessOptions(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scenes returns the configured scene names.
func (s *Scanner) Scenes() []string {
	return s.scenes.Names()
}

// Regions returns the labelled rectangles a scan of scene would read.
func (s *Scanner) Regions(scene string) ([]imaging.LabeledRegion, error) {
	return s.scenes.Regions(scene)
}

// Scan captures the screen and reads every region of scene.
//
// It returns a *SceneError wrapping ErrNoRegions when no regions resolve,
// an error wrapping ocr.ErrEngineUnavailable when OCR cannot run, and the
// context error if ctx is cancelled between regions.
func (s *Scanner) Scan(ctx context.Context, scene string) (Result, error) {
	used, specs, ok := s.scenes.Resolve(scene)
	if !ok {
		return nil, &SceneError{Scene: scene, Err: ErrNoRegions}
	}
	if used != scene {
		s.logger.Debug("scene has no regions, using default", "scene", scene)
	}

	frame, err := s.capturer.Capture()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	result := make(Result, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		region, ok := spec.Region()
		if !ok {
			s.logger.Debug("skipping region with missing coordinates", "label", spec.Label)
			continue
		}

		crop, clamped := imaging.CropRegion(frame, region)
		if clamped != region {
			s.logger.Debug("region clamped", "label", spec.Label, "from", region, "to", clamped)
		}

		text, err := s.engine.Recognize(imaging.Preprocess(crop, s.prep))
		if err != nil {
			if errors.Is(err, ocr.ErrEngineUnavailable) {
				return nil, err
			}
			s.logger.Debug("region OCR failed", "label", spec.Label, "err", err)
			text = ""
		}

		result[spec.Label] = strings.TrimSpace(text)
	}

	s.logger.Debug("scan complete", "scene", used, "regions", len(result))
	return result, nil
}
