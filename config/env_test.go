// ABOUTME: Tests for environment configuration and the loopback bind guard.
// ABOUTME: Uses t.Setenv so each case runs with an isolated environment.

package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCheckBind(t *testing.T) {
	tests := []struct {
		name        string
		bind        string
		allowRemote bool
		wantErr     bool
	}{
		{"loopback v4", "127.0.0.1:2390", false, false},
		{"loopback v6", "[::1]:2390", false, false},
		{"localhost", "localhost:2390", false, false},
		{"any address", "0.0.0.0:2390", false, true},
		{"lan address", "192.168.1.5:2390", false, true},
		{"hostname", "example.com:2390", false, true},
		{"any address allowed", "0.0.0.0:2390", true, false},
		{"missing port", "127.0.0.1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBind(tt.bind, tt.allowRemote)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckBind(%q, %v) error = %v, wantErr %v", tt.bind, tt.allowRemote, err, tt.wantErr)
			}
		})
	}
}

func TestEnvFromOSDefaults(t *testing.T) {
	t.Setenv("GLSLPREVIEW_BIND", "")
	t.Setenv("GLSLPREVIEW_ALLOW_REMOTE", "")
	t.Setenv("GLSLPREVIEW_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	env, err := EnvFromOS()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Bind != DefaultBind {
		t.Errorf("bind: got %q", env.Bind)
	}
	want := filepath.Join("/xdg", AppName, SettingsFileName)
	if env.SettingsPath != want {
		t.Errorf("settings path: got %q, want %q", env.SettingsPath, want)
	}
}

func TestEnvFromOSRejectsRemoteBind(t *testing.T) {
	t.Setenv("GLSLPREVIEW_BIND", "0.0.0.0:2390")
	t.Setenv("GLSLPREVIEW_ALLOW_REMOTE", "")

	_, err := EnvFromOS()
	if !errors.Is(err, ErrNonLoopbackBind) {
		t.Fatalf("expected ErrNonLoopbackBind, got %v", err)
	}
}

func TestEnvFromOSExplicitConfig(t *testing.T) {
	t.Setenv("GLSLPREVIEW_BIND", "")
	t.Setenv("GLSLPREVIEW_CONFIG", "/tmp/custom.yaml")

	env, err := EnvFromOS()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.SettingsPath != "/tmp/custom.yaml" {
		t.Fatalf("settings path: got %q", env.SettingsPath)
	}
}
