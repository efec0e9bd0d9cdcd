// ABOUTME: Tests for settings parsing, user/workspace merging, reload, and defaults.
// ABOUTME: Uses t.TempDir for on-disk settings files.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`
shader-toy:
  textures:
    "0": tex/noise.png
    "2": https://example.com/rock.jpg
  delay: 250
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.ShaderToy.Textures.Channel(0); got != "tex/noise.png" {
		t.Errorf("channel 0: got %q", got)
	}
	if got := s.ShaderToy.Textures.Channel(1); got != "" {
		t.Errorf("channel 1: expected empty, got %q", got)
	}
	if got := s.ShaderToy.Textures.Channel(2); got != "https://example.com/rock.jpg" {
		t.Errorf("channel 2: got %q", got)
	}
	if s.ShaderToy.Delay != 250 {
		t.Errorf("delay: got %d", s.ShaderToy.Delay)
	}
}

func TestParseSettingsRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseSettings([]byte("shader-toy: [unterminated")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestStoreMissingFilesYieldDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"))
	if err := s.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Textures()) != 0 {
		t.Errorf("expected no textures, got %v", s.Textures())
	}
	if s.Delay() != DefaultDelay {
		t.Errorf("expected default delay, got %v", s.Delay())
	}
}

func TestStoreWorkspaceOverridesUser(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.yaml")
	wsPath := WorkspaceSettingsPath(dir)

	writeFile(t, userPath, `
shader-toy:
  textures:
    "0": user0.png
    "1": user1.png
  delay: 500
`)
	writeFile(t, wsPath, `
shader-toy:
  textures:
    "1": ws1.png
`)

	s := NewStore(userPath, wsPath)
	if err := s.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tex := s.Textures()
	if tex.Channel(0) != "user0.png" {
		t.Errorf("channel 0: got %q", tex.Channel(0))
	}
	if tex.Channel(1) != "ws1.png" {
		t.Errorf("channel 1: got %q", tex.Channel(1))
	}
	if s.Delay() != 500*time.Millisecond {
		t.Errorf("delay: got %v", s.Delay())
	}
}

func TestStoreTexturesReturnsCopy(t *testing.T) {
	s := NewStaticStore(Settings{ShaderToy: ShaderToy{Textures: Textures{"0": "a.png"}}})

	tex := s.Textures()
	tex["0"] = "mutated.png"

	if got := s.Textures().Channel(0); got != "a.png" {
		t.Fatalf("store mutated through returned map: %q", got)
	}
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	writeFile(t, path, "shader-toy:\n  textures:\n    \"0\": first.png\n")

	s := NewStore(path, "")
	if err := s.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeFile(t, path, "shader-toy: [broken")
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if got := s.Textures().Channel(0); got != "first.png" {
		t.Fatalf("expected previous settings kept, got %q", got)
	}

	writeFile(t, path, "shader-toy:\n  textures:\n    \"0\": second.png\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Textures().Channel(0); got != "second.png" {
		t.Fatalf("expected reloaded value, got %q", got)
	}
}

func TestMarshalSettingsRoundTripsTextures(t *testing.T) {
	in := Settings{ShaderToy: ShaderToy{Textures: Textures{"3": "x.png"}}}
	data, err := MarshalSettings(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ShaderToy.Textures.Channel(3) != "x.png" {
		t.Fatalf("expected channel 3 to survive, got %v", out.ShaderToy.Textures)
	}
}

func TestStorePaths(t *testing.T) {
	s := NewStore("/a/settings.yaml", "")
	paths := s.Paths()
	if len(paths) != 1 || paths[0] != "/a/settings.yaml" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}
