//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Backend names the OCR implementation compiled into this binary.
const Backend = "gosseract"

// Engine runs Tesseract in-process through gosseract.
type Engine struct {
	client *gosseract.Client
	cfg    Config
}

// New creates a gosseract-backed Recognizer.
//
// gosseract initialises the Tesseract API lazily on the first Recognize
// call; a missing language pack surfaces there as ErrEngineUnavailable.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultLanguages
	}

	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(cfg.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if cfg.SingleLine {
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}

	return &Engine{client: client, cfg: cfg}, nil
}

// Recognize performs OCR on img.
func (e *Engine) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		if isUnavailableMessage(err.Error()) {
			return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return text, nil
}

// Close releases the Tesseract API.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Info reports the linked Tesseract version and whether it can start with
// the configured languages.
func Info(cfg Config) EngineInfo {
	info := EngineInfo{Backend: Backend, Languages: cfg.Languages}

	e, err := New(cfg)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer e.Close()
	info.Languages = e.cfg.Languages

	info.Version = e.client.Version()
	if err := Probe(e); err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	return info
}
