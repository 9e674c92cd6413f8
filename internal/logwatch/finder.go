package logwatch

import (
	"os"
	"path/filepath"
)

// EnvLogPath is the environment variable that overrides the log location.
const EnvLogPath = "ERADV_LOG_PATH"

// DefaultLogPath returns the Eternal Return Player.log location.
//
// Priority:
//  1. ERADV_LOG_PATH environment variable
//  2. %USERPROFILE%\AppData\LocalLow\NimbleNeuron\Eternal Return\Player.log,
//     derived from LOCALAPPDATA or USERPROFILE
//
// It returns an empty string when neither variable is set.
func DefaultLogPath() string {
	if p := os.Getenv(EnvLogPath); p != "" {
		return p
	}

	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
	}
	if localAppData == "" {
		return ""
	}

	// LocalLow is a sibling of Local.
	localLow := filepath.Join(filepath.Dir(localAppData), "LocalLow")
	return filepath.Join(localLow, "NimbleNeuron", "Eternal Return", "Player.log")
}
