package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ranjanproject/composenavigation/internal/config"
	"github.com/ranjanproject/composenavigation/internal/menu"
	"github.com/ranjanproject/composenavigation/internal/server"
)

// shutdownTimeout bounds how long open kiosk sessions can hold up Ctrl+C.
const shutdownTimeout = 5 * time.Second

// serveOptions holds the parsed serve command line. Zero values mean "use
// whatever the config file says".
type serveOptions struct {
	dir        string
	configPath string
	host       string
	port       string
	watch      *bool
	debug      bool
}

// parseServeArgs reads flags and the optional directory argument. Flags may
// appear before or after the directory.
func parseServeArgs(args []string) serveOptions {
	opts := serveOptions{dir: "."}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--watch" || arg == "-w" {
			watchVal := true
			opts.watch = &watchVal
		} else if arg == "--no-watch" {
			watchVal := false
			opts.watch = &watchVal
		} else if arg == "--debug" {
			opts.debug = true
		} else if arg == "--port" || arg == "-p" {
			if i+1 < len(args) {
				opts.port = args[i+1]
				i++
			}
		} else if arg == "--host" {
			if i+1 < len(args) {
				opts.host = args[i+1]
				i++
			}
		} else if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				opts.configPath = args[i+1]
				i++
			}
		} else if !strings.HasPrefix(arg, "-") {
			// Positional argument (directory)
			opts.dir = arg
		}
	}

	return opts
}

// ServeCommand implements the serve command.
func ServeCommand(args []string) error {
	opts := parseServeArgs(args)

	// A .env file next to the kiosk lets CUPCAKE_* variables come from a
	// file instead of the shell. Missing files are fine.
	_ = godotenv.Load()

	// Check if directory exists
	if _, err := os.Stat(opts.dir); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", opts.dir)
	}

	// Get absolute path
	absDir, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Load configuration
	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return config.Describe(opts.configPath, err)
		}
		fmt.Printf("📝 Using config: %s\n", opts.configPath)
	} else {
		cfg, err = config.LoadFromDir(absDir)
		if err != nil {
			return config.Describe(config.FindConfigFile(absDir), err)
		}
	}

	// Environment overrides the file, CLI flags override both.
	cfg.ApplyEnv()
	if opts.port != "" {
		portInt, err := strconv.Atoi(opts.port)
		if err != nil {
			return fmt.Errorf("invalid port: %s", opts.port)
		}
		cfg.Server.Port = portInt
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.debug {
		cfg.Server.Debug = true
	}
	if opts.watch != nil {
		cfg.Features.HotReload = *opts.watch
	}

	// The menu file is the watch target. When no file exists yet the kiosk
	// runs on the built-in menu and picks up a cupcake.yaml the moment the
	// bakery writes one.
	menuPath := opts.configPath
	if menuPath == "" {
		menuPath = config.FindConfigFile(absDir)
	}
	if menuPath == "" {
		menuPath = filepath.Join(absDir, "cupcake.yaml")
	}

	if err := cfg.Validate(); err != nil {
		return config.Describe(menuPath, err)
	}

	// Pick the menu provider: a file-backed one when hot reload is on, a
	// frozen snapshot of the config otherwise.
	var provider menu.Provider
	var fileMenu *menu.FileProvider
	if cfg.Features.HotReload {
		fileMenu, err = menu.NewFile(menuPath, cfg.Server.Debug)
		if err != nil {
			return config.Describe(menuPath, err)
		}
		provider = fileMenu
	} else {
		built, err := cfg.Menu.Build()
		if err != nil {
			return config.Describe(menuPath, err)
		}
		provider = menu.NewStatic(built)
	}

	// Create server
	srv, err := server.New(cfg, provider)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Printf("🧁 %s\n\n", cfg.Title)
	fmt.Printf("Serving: %s\n", absDir)

	m := provider.Menu()
	fmt.Printf("Menu: %d flavors, boxes of %s, %s per cupcake\n",
		len(m.Flavors), formatQuantities(m.Quantities), m.UnitPrice)

	// Wire menu reloads to connected kiosks
	if fileMenu != nil {
		fileMenu.Subscribe(srv.BroadcastMenu)
		if err := fileMenu.Start(); err != nil {
			return fmt.Errorf("failed to watch menu file: %w", err)
		}
		defer fileMenu.Stop()
		fmt.Printf("\n👀 Watch mode enabled - the kiosk reloads when %s changes\n", filepath.Base(menuPath))
	}

	fmt.Printf("\n🌐 Kiosk running at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	if cfg.Server.Debug {
		fmt.Printf("🐛 Debug logging enabled\n")
	}
	fmt.Printf("⚡ Gzip compression enabled\n")
	fmt.Printf("Press Ctrl+C to stop\n\n")

	// Run until the listener fails or the operator interrupts.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-stop:
		fmt.Printf("\nReceived %v, shutting down...\n", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func init() {
	log.SetFlags(0) // Remove timestamp from logs
}
