package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIKey, EnvAPIURL, EnvLogPath, EnvConfigDir, EnvOllamaURL, EnvOllamaModel,
		EnvOCRLanguages, EnvTessdataPrefix, EnvThreshold, EnvUpscale, EnvPollInterval,
		EnvSettleDelay, EnvScanScene, EnvLogLevel, EnvDotenvPath,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultConfigDir, cfg.ConfigDir)
	assert.Equal(t, DefaultOllamaURL, cfg.OllamaURL)
	assert.Equal(t, DefaultOllamaModel, cfg.OllamaModel)
	assert.Equal(t, []string{"eng", "jpn", "kor", "chi_sim", "chi_tra"}, cfg.OCRLanguages)
	assert.Equal(t, 180, cfg.Threshold)
	assert.Equal(t, 2.0, cfg.Upscale)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.SettleDelay)
	assert.Equal(t, "loading", cfg.ScanScene)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv(EnvAPIKey, " secret ")
	t.Setenv(EnvLogPath, "/tmp/Player.log")
	t.Setenv(EnvOllamaModel, "qwen2")
	t.Setenv(EnvOCRLanguages, "eng+jpn")
	t.Setenv(EnvThreshold, "150")
	t.Setenv(EnvUpscale, "3")
	t.Setenv(EnvPollInterval, "500ms")
	t.Setenv(EnvSettleDelay, "2")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "/tmp/Player.log", cfg.LogPath)
	assert.Equal(t, "qwen2", cfg.OllamaModel)
	assert.Equal(t, []string{"eng", "jpn"}, cfg.OCRLanguages)
	assert.Equal(t, 150, cfg.Threshold)
	assert.Equal(t, 3.0, cfg.Upscale)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)

	ocrCfg := cfg.OCR()
	assert.Equal(t, []string{"eng", "jpn"}, ocrCfg.Languages)
	assert.True(t, ocrCfg.SingleLine)
}

func TestLoad_Malformed(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv(EnvThreshold, "bright")
	t.Setenv(EnvPollInterval, "soon")
	t.Setenv(EnvLogLevel, "chatty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvThreshold)
	assert.Contains(t, err.Error(), EnvPollInterval)
	assert.Contains(t, err.Error(), EnvLogLevel)
}

func TestLoad_DotenvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ER_API_KEY=from-file\nOLLAMA_MODEL=from-file\n"), 0o644))
	t.Setenv(EnvOllamaModel, "from-env")
	t.Cleanup(func() { os.Unsetenv(EnvAPIKey) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "from-env", cfg.OllamaModel, "environment wins over .env")
}

func TestLoad_ExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "advisor.env")
	require.NoError(t, os.WriteFile(path, []byte("ERADV_SCAN_SCENE=char_select\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvScanScene) })

	cfg, err := LoadWithOptions(LoadOptions{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.EnvFile)
	assert.Equal(t, "char_select", cfg.ScanScene)

	_, err = LoadWithOptions(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OCRLanguages: []string{"eng"},
			Threshold:    180,
			Upscale:      2,
			PollInterval: time.Second,
			SettleDelay:  0,
			ScanScene:    "loading",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold high", func(c *Config) { c.Threshold = 256 }},
		{"threshold negative", func(c *Config) { c.Threshold = -1 }},
		{"upscale zero", func(c *Config) { c.Upscale = 0 }},
		{"upscale huge", func(c *Config) { c.Upscale = 20 }},
		{"poll zero", func(c *Config) { c.PollInterval = 0 }},
		{"settle negative", func(c *Config) { c.SettleDelay = -time.Second }},
		{"no languages", func(c *Config) { c.OCRLanguages = nil }},
		{"no scene", func(c *Config) { c.ScanScene = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it afterwards (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
