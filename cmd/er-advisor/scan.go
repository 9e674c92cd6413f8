package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/er-advisor/internal/capture"
	"github.com/ironsheep/er-advisor/internal/config"
	"github.com/ironsheep/er-advisor/internal/ocr"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

var (
	// scan flags
	scanScene   string
	scanImage   string
	scanDisplay int
	scanFormat  string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Read the configured regions once and print the text",
	Long: `Capture the screen (or load a saved screenshot) and run OCR on every
region of a scene. Useful for checking region calibration.

Examples:
  # Scan the live display using the loading-screen layout
  er-advisor scan --scene loading

  # Scan a saved screenshot
  er-advisor scan --image captures/loading.png --format pretty`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanScene, "scene", "s", "",
		"Scene to scan (default: ERADV_SCAN_SCENE)")
	scanCmd.Flags().StringVarP(&scanImage, "image", "i", "",
		"Scan a saved screenshot instead of the display")
	scanCmd.Flags().IntVar(&scanDisplay, "display", 0,
		"Display index to capture")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := checkFormat(scanFormat); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc, engine, err := newScanner(cfg, logger, newCapturer(scanImage, scanDisplay))
	if err != nil {
		return err
	}
	defer engine.Close()

	scene := scanScene
	if scene == "" {
		scene = cfg.ScanScene
	}

	result, err := sc.Scan(ctx, scene)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return OutputResult(scanFormat, result, os.Stdout)
}

func newCapturer(image string, display int) capture.Capturer {
	if image != "" {
		return capture.NewFile(image)
	}
	return capture.Display{Index: display}
}

// newScanner loads the region layouts and starts the OCR engine.
// Missing layouts are not fatal: every Scan then reports ErrNoRegions, and a
// long-running agent keeps watching the log until the files are fixed.
func newScanner(cfg *config.Config, logger *slog.Logger, capturer capture.Capturer) (*scanner.Scanner, ocr.Recognizer, error) {
	scenes := scanner.LoadScenes(cfg.ConfigDir, scanner.DefaultSources, logger)
	if len(scenes) == 0 {
		logger.Warn("no region configuration found, scans will fail until it is added",
			"dir", cfg.ConfigDir)
	}

	engine, err := ocr.New(cfg.OCR())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start OCR engine: %w", err)
	}

	sc := scanner.New(scenes, capturer, engine,
		scanner.WithLogger(logger),
		scanner.WithThreshold(uint8(cfg.Threshold)),
		scanner.WithUpscale(cfg.Upscale),
	)
	logger.Debug("scanner ready", "scenes", sc.Scenes(), "ocr", ocr.Backend)
	return sc, engine, nil
}
