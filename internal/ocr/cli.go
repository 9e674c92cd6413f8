//go:build !cgo

package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"
)

// Backend names the OCR implementation compiled into this binary.
const Backend = "tesseract-cli"

// Engine runs the tesseract executable once per image, feeding PNG on stdin.
type Engine struct {
	cfg Config
}

// New creates a CLI-backed Recognizer.
//
// A missing binary is not detected here; it surfaces from Recognize as
// ErrEngineUnavailable.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultLanguages
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) args() []string {
	args := []string{"stdin", "stdout", "-l", strings.Join(e.cfg.Languages, "+")}
	if e.cfg.SingleLine {
		args = append(args, "--psm", "7")
	}
	if e.cfg.TessdataPrefix != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataPrefix)
	}
	return args
}

// Recognize performs OCR on img.
func (e *Engine) Recognize(img image.Image) (string, error) {
	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.cfg.Binary, e.args()...)
	cmd.Stdin = &in
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		msg := strings.TrimSpace(stderr.String())
		if isUnavailableMessage(msg) {
			return "", fmt.Errorf("%w: %s", ErrEngineUnavailable, msg)
		}
		return "", fmt.Errorf("OCR failed: %w: %s", err, msg)
	}

	return stdout.String(), nil
}

// Close is a no-op; each Recognize call runs its own process.
func (e *Engine) Close() error {
	return nil
}

// Info reports the tesseract binary version and whether it can start with
// the configured languages.
func Info(cfg Config) EngineInfo {
	info := EngineInfo{Backend: Backend, Languages: cfg.Languages}

	e, err := New(cfg)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Languages = e.cfg.Languages

	out, err := exec.Command(e.cfg.Binary, "--version").CombinedOutput()
	if err != nil {
		info.Error = fmt.Errorf("%w: %v", ErrEngineUnavailable, err).Error()
		return info
	}
	if first, _, _ := strings.Cut(string(out), "\n"); first != "" {
		info.Version = strings.TrimSpace(first)
	}

	if err := Probe(e); err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	return info
}
