package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/er-advisor/internal/agent"
	"github.com/ironsheep/er-advisor/internal/erapi"
	"github.com/ironsheep/er-advisor/internal/llm"
	"github.com/ironsheep/er-advisor/internal/logwatch"
	"github.com/ironsheep/er-advisor/internal/ocr"
)

var (
	// run flags
	runLogPath string
	runFollow  bool
	runDisplay int
	runFormat  string
	runScanNow bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the game and give advice when a match loads",
	Long: `Watch Player.log. When the loading screen appears, wait for it to
settle, read the player names, fetch their recent stats and print the
model's advice.

Examples:
  # Defaults from .env
  er-advisor run

  # Scan immediately once, then keep watching
  er-advisor run --scan-now --format pretty`,
	RunE: runAgent,
}

func init() {
	runCmd.Flags().StringVarP(&runLogPath, "log", "l", "",
		"Path to Player.log (auto-detected if not specified)")
	runCmd.Flags().BoolVar(&runFollow, "follow", false,
		"Use file notifications instead of polling the log")
	runCmd.Flags().IntVar(&runDisplay, "display", 0,
		"Display index to capture")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "pretty",
		"Advice output format: jsonl, pretty")
	runCmd.Flags().BoolVar(&runScanNow, "scan-now", false,
		"Scan once at startup without waiting for a loading screen")
}

func runAgent(cmd *cobra.Command, args []string) error {
	if err := checkFormat(runFormat); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	path := runLogPath
	if path == "" {
		path = cfg.LogPath
	}
	if path == "" {
		return fmt.Errorf("log path not found: set %s or pass --log", logwatch.EnvLogPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc, engine, err := newScanner(cfg, logger, newCapturer("", runDisplay))
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := ocr.Probe(engine); err != nil {
		// Keep running: the log is still watched and the error is repeated
		// on the first scan.
		logger.Error("OCR engine not available", "err", err)
	}

	var source agent.EventSource
	if runFollow {
		f, err := logwatch.NewFollower(ctx, path, logwatch.FollowConfig{})
		if err != nil {
			return err
		}
		defer f.Stop()
		source = agent.NewFollowSource(f, logger)
	} else {
		tl := logwatch.NewTailer(path, logwatch.WithLogger(logger))
		defer tl.Close()
		tl.Open()
		source = tl
	}

	a := agent.New(agent.Config{
		Source:    source,
		Scheduler: agent.NewTicker(cfg.PollInterval),
		Scanner:   sc,
		Stats: erapi.New(erapi.Config{
			URL:    cfg.APIURL,
			APIKey: cfg.APIKey,
			Logger: logger,
		}),
		Advisor: llm.New(llm.Config{
			URL:    cfg.OllamaURL,
			Model:  cfg.OllamaModel,
			Logger: logger,
		}),
		Scene:       cfg.ScanScene,
		SettleDelay: cfg.SettleDelay,
		OnAdvice: func(adv agent.Advice) {
			if err := OutputAdvice(runFormat, adv, os.Stdout); err != nil {
				logger.Warn("failed to write advice", "err", err)
			}
		},
		Logger: logger,
	})

	if runScanNow {
		a.ScanAndAdvise(ctx)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopping")
	return nil
}
