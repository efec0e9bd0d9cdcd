// ABOUTME: Help display for the glslpreview CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for showing which variables are set.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2389-research/glslpreview/config"
)

// printHelp writes usage, grouped flags, examples, and environment status to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "glslpreview %s - live preview for GLSL fragment shaders\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  glslpreview [flags] <shader.glsl> [more.glsl...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  The first shader is focused. Saving it refreshes the preview once")
	fmt.Fprintln(w, "  editing pauses for the configured delay.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Preview Flags:")
	fmt.Fprintln(w, "  -delay <duration>     Quiet period before refreshing (default: settings or 1s)")
	fmt.Fprintln(w, "  -workspace <dir>      Workspace root for .glslpreview.yaml (default: current directory)")
	fmt.Fprintln(w, "  -config <file>        User settings file (default: $XDG_CONFIG_HOME/glslpreview/settings.yaml)")
	fmt.Fprintln(w, "  -open                 Run showPreview at startup")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -addr-host <host>     Listen host (default: 127.0.0.1)")
	fmt.Fprintln(w, "  -port <port>          Listen port (default: 2390)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "  -tui                  Show the terminal dashboard")
	fmt.Fprintln(w, "  -mcp                  Serve MCP tools over stdio")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -verbose              Log every edit and timer")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  glslpreview -open shaders/plasma.glsl")
	fmt.Fprintln(w, "  glslpreview -tui -delay 500ms shaders/*.glsl")
	fmt.Fprintln(w, "  glslpreview -mcp -workspace ~/art shaders/tunnel.glsl")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  GLSLPREVIEW_BIND          %s\n", envStatus("GLSLPREVIEW_BIND"))
	fmt.Fprintf(w, "  GLSLPREVIEW_ALLOW_REMOTE  %s\n", envStatus("GLSLPREVIEW_ALLOW_REMOTE"))
	fmt.Fprintf(w, "  GLSLPREVIEW_CONFIG        %s\n", envStatus("GLSLPREVIEW_CONFIG"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Bind addresses other than loopback need GLSLPREVIEW_ALLOW_REMOTE=true.\n")
	fmt.Fprintf(w, "  Default bind: %s\n", config.DefaultBind)
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
