package commands

import (
	"os"
	"path/filepath"

	"github.com/inkshed/redline/internal/redline"
)

// Flags carries global flag values and the objects built from them in the
// Before hook, shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Service is wired in the Before hook and available to all commands.
	Service *redline.Service
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "redline", "config.yaml")
}
