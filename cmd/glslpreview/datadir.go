// ABOUTME: XDG data directory resolution for glslpreview's log file.
// ABOUTME: Checks XDG_DATA_HOME, falls back to ~/.local/share/glslpreview.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2389-research/glslpreview/config"
)

// defaultDataDir returns $XDG_DATA_HOME/glslpreview or ~/.local/share/glslpreview.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, config.AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", config.AppName), nil
}

// openLogFile creates the data directory and opens glslpreview.log for
// appending. The dashboard owns the terminal, so logs go here instead.
func openLogFile() (*os.File, error) {
	dir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, config.AppName+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
