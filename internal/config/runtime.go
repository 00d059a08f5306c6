package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "unattended"

// GetRuntimePath returns the directory holding the .env file and the run history.
// UNATTEND_RUNTIME_PATH wins; relative values are taken from the home directory.
func GetRuntimePath() string {
	path := os.Getenv("UNATTEND_RUNTIME_PATH")
	if path == "" {
		return filepath.Join(xdg.StateHome, appName)
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
