package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/er-advisor/internal/config"
	"github.com/ironsheep/er-advisor/internal/ocr"
)

var (
	// Version information (set by ldflags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// Global flags
	verbose bool
	envFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "er-advisor",
	Short: "Eternal Return match advisor",
	Long: `er-advisor watches the Eternal Return client log and, when a match
starts loading, reads player names off the loading screen, looks them up in
the official stats API and asks a local Ollama model for advice.

Configuration is read from a .env file and the environment (ER_API_KEY,
OLLAMA_MODEL, ERADV_* variables). Region layouts are JSON files in the
config directory (vision_map*.json).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"Path to a .env file (default: ./.env or next to the executable)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads and validates configuration and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{EnvFile: envFile})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, newLogger(os.Stderr, cfg.LogLevel), nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and OCR engine information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithOptions(config.LoadOptions{EnvFile: envFile})
		if err != nil {
			return err
		}
		info := ocr.Info(cfg.OCR())
		return printVersion(cmd.OutOrStdout(), info, versionJSON)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
}

func printVersion(w io.Writer, info ocr.EngineInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Version   string         `json:"version"`
			BuildTime string         `json:"build_time"`
			GitCommit string         `json:"git_commit"`
			OCR       ocr.EngineInfo `json:"ocr"`
		}{Version, BuildTime, GitCommit, info})
	}

	fmt.Fprintf(w, "er-advisor %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  OCR backend: %s %s\n", info.Backend, info.Version)
	fmt.Fprintf(w, "  OCR languages: %v\n", info.Languages)
	if info.Available {
		fmt.Fprintln(w, "  OCR status: available")
	} else {
		fmt.Fprintf(w, "  OCR status: unavailable (%s)\n", info.Error)
	}
	return nil
}
