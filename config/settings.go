// ABOUTME: User and workspace settings for the shader-toy section, loaded from YAML files.
// ABOUTME: Store merges both layers and hands out fresh copies so callers always read current values.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the user-level settings file inside the config dir.
const SettingsFileName = "settings.yaml"

// WorkspaceFileName is the workspace-level settings file in the workspace root.
const WorkspaceFileName = ".glslpreview.yaml"

// DefaultDelay is the quiescence interval used when no setting overrides it.
const DefaultDelay = 1000 * time.Millisecond

// ChannelCount is the number of iChannel texture slots in the preview.
const ChannelCount = 4

// Textures maps a channel index ("0".."3") to a texture path or URL.
// Entries are passed through verbatim; nothing validates them.
type Textures map[string]string

// Channel returns the path configured for channel i, or "" when unset.
func (t Textures) Channel(i int) string {
	if t == nil {
		return ""
	}
	return t[strconv.Itoa(i)]
}

// Clone returns an independent copy of t. A nil map clones to an empty one.
func (t Textures) Clone() Textures {
	out := make(Textures, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ShaderToy is the "shader-toy" settings group.
type ShaderToy struct {
	Textures Textures `yaml:"textures,omitempty"`
	// Delay is the quiescence interval in milliseconds. Zero means unset.
	Delay int `yaml:"delay,omitempty"`
}

// Settings is the on-disk shape of a settings file.
type Settings struct {
	ShaderToy ShaderToy `yaml:"shader-toy"`
}

// ParseSettings decodes YAML settings. Empty input yields zero Settings.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// MarshalSettings encodes settings as YAML.
func MarshalSettings(s Settings) ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return out, nil
}

// readSettingsFile loads settings from path. A missing file is not an error.
func readSettingsFile(path string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// merge overlays workspace settings on user settings key by key.
func merge(user, workspace Settings) Settings {
	out := Settings{
		ShaderToy: ShaderToy{
			Textures: user.ShaderToy.Textures.Clone(),
			Delay:    user.ShaderToy.Delay,
		},
	}
	for k, v := range workspace.ShaderToy.Textures {
		out.ShaderToy.Textures[k] = v
	}
	if workspace.ShaderToy.Delay > 0 {
		out.ShaderToy.Delay = workspace.ShaderToy.Delay
	}
	return out
}

// Store holds the merged user and workspace settings. It is safe for
// concurrent use; Reload swaps the whole snapshot atomically.
type Store struct {
	mu            sync.RWMutex
	userPath      string
	workspacePath string
	current       Settings
}

// NewStore creates a Store over the given files. Either path may be empty.
// Call Load before reading.
func NewStore(userPath, workspacePath string) *Store {
	return &Store{
		userPath:      userPath,
		workspacePath: workspacePath,
	}
}

// NewStaticStore creates a Store whose settings never come from disk.
func NewStaticStore(s Settings) *Store {
	return &Store{current: merge(s, Settings{})}
}

// Load reads both settings files and replaces the current snapshot.
// On error the previous snapshot is kept.
func (s *Store) Load() error {
	user, err := readSettingsFile(s.userPath)
	if err != nil {
		return err
	}
	ws, err := readSettingsFile(s.workspacePath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = merge(user, ws)
	s.mu.Unlock()
	return nil
}

// Reload is Load under a name that reads well at watcher call sites.
func (s *Store) Reload() error {
	return s.Load()
}

// Paths returns the settings files this store reads, skipping empty ones.
func (s *Store) Paths() []string {
	var out []string
	for _, p := range []string{s.userPath, s.workspacePath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Textures returns a copy of the merged texture map.
func (s *Store) Textures() Textures {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.ShaderToy.Textures.Clone()
}

// Delay returns the configured quiescence interval, or DefaultDelay.
func (s *Store) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.ShaderToy.Delay <= 0 {
		return DefaultDelay
	}
	return time.Duration(s.current.ShaderToy.Delay) * time.Millisecond
}

// Settings returns a copy of the merged settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return merge(s.current, Settings{})
}

// WorkspaceSettingsPath returns the workspace settings file for root.
func WorkspaceSettingsPath(root string) string {
	return filepath.Join(root, WorkspaceFileName)
}
