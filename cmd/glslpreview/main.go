// ABOUTME: CLI entrypoint for glslpreview: opens shaders, activates the preview session, and serves it.
// ABOUTME: Wires config, file watching, the HTTP viewer, and the optional TUI or MCP front ends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/2389-research/glslpreview/config"
	"github.com/2389-research/glslpreview/extension"
	"github.com/2389-research/glslpreview/host"
	"github.com/2389-research/glslpreview/mcpserver"
	"github.com/2389-research/glslpreview/tui"
	"github.com/2389-research/glslpreview/web"
	"github.com/2389-research/glslpreview/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

var version = "dev"

// cliConfig holds all CLI configuration parsed from flags and positional arguments.
type cliConfig struct {
	port         int    // 0 keeps the port from GLSLPREVIEW_BIND
	host         string // "" keeps the host from GLSLPREVIEW_BIND
	delay        time.Duration
	workspaceDir string
	configPath   string
	open         bool
	tuiMode      bool
	mcpMode      bool
	verbose      bool
	showVersion  bool
	files        []string
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("glslpreview %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses args into a cliConfig.
func parseFlags(args []string, stderr io.Writer) (cliConfig, error) {
	var cfg cliConfig

	fs := flag.NewFlagSet("glslpreview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.port, "port", 0, "Server port (default: 2390)")
	fs.StringVar(&cfg.host, "addr-host", "", "Server host (default: 127.0.0.1)")
	fs.DurationVar(&cfg.delay, "delay", 0, "Quiet period before refreshing the preview")
	fs.StringVar(&cfg.workspaceDir, "workspace", "", "Workspace root (default: current directory)")
	fs.StringVar(&cfg.configPath, "config", "", "User settings file")
	fs.BoolVar(&cfg.open, "open", false, "Run showPreview at startup")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Show the terminal dashboard")
	fs.BoolVar(&cfg.mcpMode, "mcp", false, "Serve MCP tools over stdio")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.tuiMode && cfg.mcpMode {
		fmt.Fprintln(stderr, "error: -tui and -mcp both need the terminal; pick one")
		return cfg, errors.New("conflicting modes")
	}
	if cfg.delay < 0 {
		fmt.Fprintln(stderr, "error: -delay must not be negative")
		return cfg, errors.New("negative delay")
	}
	cfg.files = fs.Args()
	return cfg, nil
}

// resolveBind applies -addr-host and -port on top of the environment's bind address.
func resolveBind(envBind, host string, port int) (string, error) {
	envHost, envPort, err := net.SplitHostPort(envBind)
	if err != nil {
		return "", fmt.Errorf("invalid bind address %q: %w", envBind, err)
	}
	if host == "" {
		host = envHost
	}
	if port != 0 {
		envPort = strconv.Itoa(port)
	}
	return net.JoinHostPort(host, envPort), nil
}

// resolveRoot returns the absolute workspace root.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// openDocuments opens every shader and focuses the first one.
func openDocuments(ws *workspace.Workspace, files []string) error {
	for i, path := range files {
		doc, err := ws.Open(path)
		if err != nil {
			return err
		}
		if i == 0 {
			if err := ws.SetActive(doc.URI()); err != nil {
				return err
			}
		}
	}
	return nil
}

// run wires the session and blocks until shutdown. Returns an exit code.
func run(cfg cliConfig) int {
	root, err := resolveRoot(cfg.workspaceDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	loadDotEnvAuto(root)

	env, err := config.EnvFromOS()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	bind, err := resolveBind(env.Bind, cfg.host, cfg.port)
	if err == nil {
		err = config.CheckBind(bind, env.AllowRemote)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.mcpMode {
		// stdout carries the MCP protocol
		browser.Stdout = os.Stderr
	}
	if cfg.tuiMode {
		f, err := openLogFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()
		log.SetOutput(f)
	}

	userSettings := cfg.configPath
	if userSettings == "" {
		userSettings = env.SettingsPath
	}
	store := config.NewStore(userSettings, config.WorkspaceSettingsPath(root))
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ws := workspace.New(root)
	if err := openDocuments(ws, cfg.files); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Set up context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	viewers := host.NewViewers()
	notifier := host.NewFanout(host.LogNotifier{}, viewers)
	display := host.FirstOf(viewers, host.BrowserDisplay{BaseURL: "http://" + bind})

	ext, err := extension.Activate(extension.Deps{
		Workspace: ws,
		Settings:  store,
		Display:   display,
		Notifier:  notifier,
		Delay:     cfg.delay,
		Verbose:   cfg.verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer ext.Deactivate()

	srv, err := web.NewServer(web.ServerConfig{Addr: bind, Extension: ext, Viewers: viewers, Verbose: cfg.verbose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer srv.Close()

	watcher, err := startWatcher(ctx, ws, store, notifier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer watcher.Close()

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Serve(ctx, ln) }()

	if cfg.open {
		if err := ext.ShowPreview(ctx); err != nil {
			log.Printf("showPreview at startup failed: %v", err)
		}
	}

	switch {
	case cfg.mcpMode:
		err = mcpserver.Run(ctx, ext, version)
	case cfg.tuiMode:
		err = runTUI(ctx, ext, notifier)
	default:
		fmt.Fprintf(os.Stderr, "preview at http://%s/view\n", bind)
		select {
		case <-ctx.Done():
		case err = <-serverErr:
		}
	}
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// startWatcher follows open shader files and both settings files. A
// settings change reloads the store; the next refresh picks it up.
func startWatcher(ctx context.Context, ws *workspace.Workspace, store *config.Store, notifier host.Notifier) (*workspace.Watcher, error) {
	watcher, err := workspace.NewWatcher(ws, func(path string) {
		if err := store.Reload(); err != nil {
			log.Printf("settings reload failed path=%s error=%v", path, err)
			host.ShowError(notifier, fmt.Sprintf("settings: %v", err))
			return
		}
		log.Printf("settings reloaded path=%s", path)
		host.ShowInfo(notifier, "settings reloaded from "+filepath.Base(path))
	})
	if err != nil {
		return nil, err
	}
	if err := watcher.WatchDocuments(); err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.WatchConfig(store.Paths()...); err != nil {
		watcher.Close()
		return nil, err
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("watcher stopped error=%v", err)
		}
	}()
	return watcher, nil
}

// runTUI shows the dashboard until the user quits or ctx is cancelled.
func runTUI(ctx context.Context, ext *extension.Extension, notifier *host.Fanout) error {
	p := tea.NewProgram(tui.NewAppModel(ctx, ext), tea.WithAltScreen(), tea.WithContext(ctx))

	// Wire the event bridge so session events reach the TUI.
	bridge := tui.NewEventBridge(p.Send)
	sub := bridge.Attach(ext)
	defer sub.Dispose()
	notifier.Add(bridge)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
