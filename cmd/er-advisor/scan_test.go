package main

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/er-advisor/internal/capture"
	"github.com/ironsheep/er-advisor/internal/config"
	"github.com/ironsheep/er-advisor/internal/ocr"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

func TestNewScanner_NoRegionFiles(t *testing.T) {
	cfg := &config.Config{
		ConfigDir:    t.TempDir(),
		OCRLanguages: ocr.DefaultLanguages,
		Threshold:    180,
		Upscale:      2,
	}

	captured := false
	capturer := capture.Func(func() (image.Image, error) {
		captured = true
		return nil, errors.New("unexpected capture")
	})

	sc, engine, err := newScanner(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), capturer)
	require.NoError(t, err)
	defer engine.Close()

	assert.Empty(t, sc.Scenes())

	_, err = sc.Scan(context.Background(), scanner.DefaultScene)
	var sceneErr *scanner.SceneError
	require.ErrorAs(t, err, &sceneErr)
	assert.ErrorIs(t, err, scanner.ErrNoRegions)
	assert.False(t, captured)
}
