// ABOUTME: Process configuration from GLSLPREVIEW_* environment variables and XDG directories.
// ABOUTME: Refuses non-loopback binds unless remote access is explicitly allowed.

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// AppName names the XDG subdirectories.
const AppName = "glslpreview"

// DefaultBind is the preview server listen address.
const DefaultBind = "127.0.0.1:2390"

// ErrNonLoopbackBind is returned when the bind address would expose the
// preview server beyond this machine without opting in.
var ErrNonLoopbackBind = errors.New(
	"GLSLPREVIEW_BIND is a non-loopback address but GLSLPREVIEW_ALLOW_REMOTE is not true",
)

// Env holds configuration loaded from the environment.
type Env struct {
	Bind         string // GLSLPREVIEW_BIND, default 127.0.0.1:2390
	AllowRemote  bool   // GLSLPREVIEW_ALLOW_REMOTE
	SettingsPath string // GLSLPREVIEW_CONFIG, default $XDG_CONFIG_HOME/glslpreview/settings.yaml
}

// EnvFromOS loads configuration from GLSLPREVIEW_* variables with defaults.
func EnvFromOS() (*Env, error) {
	bind := envOrDefault("GLSLPREVIEW_BIND", DefaultBind)

	allowRemote := false
	if v := os.Getenv("GLSLPREVIEW_ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		allowRemote = true
	}

	settingsPath := os.Getenv("GLSLPREVIEW_CONFIG")
	if settingsPath == "" {
		dir, err := DefaultConfigDir()
		if err == nil {
			settingsPath = filepath.Join(dir, SettingsFileName)
		}
	}

	if err := CheckBind(bind, allowRemote); err != nil {
		return nil, err
	}

	return &Env{
		Bind:         bind,
		AllowRemote:  allowRemote,
		SettingsPath: settingsPath,
	}, nil
}

// CheckBind rejects non-loopback bind addresses unless allowRemote is set.
// Only 127.0.0.0/8, ::1, and "localhost" count as loopback.
func CheckBind(bind string, allowRemote bool) error {
	if allowRemote {
		return nil
	}
	host, _, err := net.SplitHostPort(bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", bind, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNonLoopbackBind, bind)
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/glslpreview, falling back to
// ~/.config/glslpreview.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", AppName), nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
