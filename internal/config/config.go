// Package config loads runtime settings from a .env file and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/er-advisor/internal/imaging"
	"github.com/ironsheep/er-advisor/internal/logwatch"
	"github.com/ironsheep/er-advisor/internal/ocr"
)

// Environment variables.
const (
	EnvAPIKey         = "ER_API_KEY"
	EnvAPIURL         = "ER_API_URL"
	EnvLogPath        = logwatch.EnvLogPath
	EnvConfigDir      = "ERADV_CONFIG_DIR"
	EnvOllamaURL      = "OLLAMA_URL"
	EnvOllamaModel    = "OLLAMA_MODEL"
	EnvOCRLanguages   = "ERADV_OCR_LANGS"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
	EnvThreshold      = "ERADV_THRESHOLD"
	EnvUpscale        = "ERADV_UPSCALE"
	EnvPollInterval   = "ERADV_POLL_INTERVAL"
	EnvSettleDelay    = "ERADV_SETTLE_DELAY"
	EnvScanScene      = "ERADV_SCAN_SCENE"
	EnvLogLevel       = "ERADV_LOG_LEVEL"
	EnvDotenvPath     = "ERADV_ENV_FILE"
)

// Defaults.
const (
	DefaultAPIURL       = "https://open-api.bser.io"
	DefaultConfigDir    = "config"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "llama3"
	DefaultPollInterval = time.Second
	DefaultSettleDelay  = 5 * time.Second
	DefaultScanScene    = "loading"
)

// Config holds every runtime setting.
type Config struct {
	APIKey string
	APIURL string

	LogPath   string
	ConfigDir string

	OllamaURL   string
	OllamaModel string

	OCRLanguages   []string
	TessdataPrefix string
	Threshold      int
	Upscale        float64

	PollInterval time.Duration
	SettleDelay  time.Duration
	ScanScene    string

	LogLevel slog.Level

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

// LoadOptions overrides where the .env file is looked up.
type LoadOptions struct {
	// EnvFile, if set, is the only .env file considered.
	EnvFile string
}

// Load reads configuration using the default .env lookup.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads a .env file, then the environment. Variables
// already set in the environment take precedence over the file.
//
// Lookup order when opts.EnvFile is empty: $ERADV_ENV_FILE, ./.env, then
// .env next to the executable.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := opts.EnvFile
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			if opts.EnvFile != "" {
				return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
			}
			envPath = ""
		}
	}

	var errs []error

	cfg := &Config{
		APIKey:         strings.TrimSpace(os.Getenv(EnvAPIKey)),
		APIURL:         getEnvWithDefault(EnvAPIURL, DefaultAPIURL),
		LogPath:        os.Getenv(EnvLogPath),
		ConfigDir:      getEnvWithDefault(EnvConfigDir, DefaultConfigDir),
		OllamaURL:      getEnvWithDefault(EnvOllamaURL, DefaultOllamaURL),
		OllamaModel:    getEnvWithDefault(EnvOllamaModel, DefaultOllamaModel),
		OCRLanguages:   append([]string(nil), ocr.DefaultLanguages...),
		TessdataPrefix: os.Getenv(EnvTessdataPrefix),
		Threshold:      imaging.DefaultThreshold,
		Upscale:        imaging.DefaultUpscale,
		PollInterval:   DefaultPollInterval,
		SettleDelay:    DefaultSettleDelay,
		ScanScene:      getEnvWithDefault(EnvScanScene, DefaultScanScene),
		LogLevel:       slog.LevelInfo,
		EnvFile:        envPath,
	}

	if v := os.Getenv(EnvOCRLanguages); v != "" {
		cfg.OCRLanguages = ocr.ParseLanguages(v)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = logwatch.DefaultLogPath()
	}

	if v := os.Getenv(EnvThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvThreshold, err))
		} else {
			cfg.Threshold = n
		}
	}
	if v := os.Getenv(EnvUpscale); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvUpscale, err))
		} else {
			cfg.Upscale = f
		}
	}
	if v := os.Getenv(EnvPollInterval); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPollInterval, err))
		} else {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv(EnvSettleDelay); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSettleDelay, err))
		} else {
			cfg.SettleDelay = d
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = level
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Threshold < 0 || c.Threshold > 255 {
		errs = append(errs, fmt.Errorf("threshold %d out of range [0, 255]", c.Threshold))
	}
	if c.Upscale <= 0 || c.Upscale > 8 {
		errs = append(errs, fmt.Errorf("upscale %v out of range (0, 8]", c.Upscale))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %v", c.PollInterval))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("settle delay must not be negative, got %v", c.SettleDelay))
	}
	if len(c.OCRLanguages) == 0 {
		errs = append(errs, errors.New("no OCR languages configured"))
	}
	if c.ScanScene == "" {
		errs = append(errs, errors.New("scan scene must not be empty"))
	}
	return errors.Join(errs...)
}

// OCR returns the recognizer configuration.
func (c *Config) OCR() ocr.Config {
	cfg := ocr.DefaultConfig()
	cfg.Languages = c.OCRLanguages
	cfg.TessdataPrefix = c.TessdataPrefix
	return cfg
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// parseDuration accepts Go durations ("1500ms") and plain seconds ("5").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func resolveEnvPath() string {
	if alt := os.Getenv(EnvDotenvPath); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
