package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/er-advisor/internal/logwatch"
)

var (
	// tail flags
	tailLogPath   string
	tailFormat    string
	tailFollow    bool
	tailPoll      bool
	tailFromStart bool
	tailInterval  time.Duration
	tailTypes     []string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print game log events as they happen",
	Long: `Monitor Player.log and print the classified events: matching mode,
matchmaking region and scene changes.

By default the log is polled once per interval, the same way the advisor
reads it. --follow uses file notifications instead.

Examples:
  # JSON Lines output
  er-advisor tail

  # Human-readable, replaying the current session
  er-advisor tail --follow --from-start --format pretty`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVarP(&tailLogPath, "log", "l", "",
		"Path to Player.log (auto-detected if not specified)")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	tailCmd.Flags().BoolVar(&tailFollow, "follow", false,
		"Use file notifications instead of polling")
	tailCmd.Flags().BoolVar(&tailPoll, "poll", false,
		"With --follow, poll for changes instead of using notifications")
	tailCmd.Flags().BoolVar(&tailFromStart, "from-start", false,
		"With --follow, read the existing log first")
	tailCmd.Flags().DurationVar(&tailInterval, "interval", 0,
		"Poll interval (default: ERADV_POLL_INTERVAL)")
	tailCmd.Flags().StringSliceVar(&tailTypes, "types", nil,
		"Event types to print (comma-separated: "+strings.Join(logwatch.KindNames(), ",")+")")

	_ = tailCmd.RegisterFlagCompletionFunc("types", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return logwatch.KindNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseKinds converts --types values into a filter set. An empty result
// means every kind is printed.
func parseKinds(values []string) (map[logwatch.Kind]bool, error) {
	if len(values) == 0 {
		return nil, nil
	}
	kinds := make(map[logwatch.Kind]bool, len(values))
	for _, v := range values {
		k, ok := logwatch.ParseKind(v)
		if !ok {
			return nil, fmt.Errorf("unknown event type %q (valid: %s)", v, strings.Join(logwatch.KindNames(), ", "))
		}
		kinds[k] = true
	}
	return kinds, nil
}

func runTail(cmd *cobra.Command, args []string) error {
	if err := checkFormat(tailFormat); err != nil {
		return err
	}
	kinds, err := parseKinds(tailTypes)
	if err != nil {
		return err
	}
	emit := func(ev logwatch.Event) error {
		if kinds != nil && !kinds[ev.Kind] {
			return nil
		}
		if err := OutputEvent(tailFormat, ev, os.Stdout); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		return nil
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	path := tailLogPath
	if path == "" {
		path = cfg.LogPath
	}
	if path == "" {
		return fmt.Errorf("log path not found: set %s or pass --log", logwatch.EnvLogPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if tailFollow {
		f, err := logwatch.NewFollower(ctx, path, logwatch.FollowConfig{Poll: tailPoll, FromStart: tailFromStart})
		if err != nil {
			return err
		}
		defer f.Stop()

		for {
			select {
			case ev, ok := <-f.Events():
				if !ok {
					return nil
				}
				if err := emit(ev); err != nil {
					return err
				}
			case err, ok := <-f.Errors():
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			case <-ctx.Done():
				return nil
			}
		}
	}

	interval := tailInterval
	if interval <= 0 {
		interval = cfg.PollInterval
	}

	tl := logwatch.NewTailer(path, logwatch.WithLogger(logger))
	defer tl.Close()
	tl.Open()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, ev := range tl.Poll() {
				if err := emit(ev); err != nil {
					return err
				}
			}
		}
	}
}
