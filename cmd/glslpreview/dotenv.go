// ABOUTME: Loads GLSLPREVIEW_* variables from .env files at startup without clobbering the environment.
// ABOUTME: Looks in the workspace root and the XDG config directory.
package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/glslpreview/config"
)

// envPrefix limits which keys a shared project .env may set.
const envPrefix = "GLSLPREVIEW_"

// parseDotEnv reads KEY=VALUE lines. Blank lines and # comments are skipped;
// an "export " prefix and matching quotes around the value are stripped.
func parseDotEnv(r io.Reader) map[string]string {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			first, last := value[0], value[len(value)-1]
			if first == last && (first == '"' || first == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		vars[key] = value
	}
	return vars
}

// loadDotEnv applies GLSLPREVIEW_* entries from path that are not already
// set. Missing files are ignored. Returns the number of variables set.
func loadDotEnv(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	set := 0
	for key, value := range parseDotEnv(f) {
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if os.Setenv(key, value) == nil {
			set++
		}
	}
	return set
}

// loadDotEnvAuto loads <root>/.env, then <config dir>/glslpreview.env.
// Earlier files win because nothing is overwritten.
func loadDotEnvAuto(root string) {
	if root != "" {
		loadDotEnv(filepath.Join(root, ".env"))
	}
	if dir, err := config.DefaultConfigDir(); err == nil {
		loadDotEnv(filepath.Join(dir, config.AppName+".env"))
	}
}
