// Package main is the entry point for keyclack.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keyclack/internal/app"
	"github.com/dshills/keyclack/internal/input/capture"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if err := capture.CheckTTY(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (keyclack must be run from an interactive terminal)\n", err)
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	term, err := capture.NewTerminal(application.PackTitle())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetSource(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set capture source: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrShutdown) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.PackPath, "pack", "", "Path to a sound pack config.json")
	flag.StringVar(&opts.PackPath, "p", "", "Path to a sound pack config.json (shorthand)")
	flag.StringVar(&opts.SettingsPath, "settings", "", "Path to settings file (.toml or .yaml)")
	flag.StringVar(&opts.SettingsPath, "s", "", "Path to settings file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.IntVar(&opts.Voices, "voices", 0, "Number of sounds that can play at once")
	flag.BoolVar(&opts.Mute, "mute", false, "Capture keys without opening the audio device")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyclack - mechanical keyboard sounds for your terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyclack [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyclack                          Use the nk-cream pack\n")
		fmt.Fprintf(os.Stderr, "  keyclack -p ./holy-pandas/config.json\n")
		fmt.Fprintf(os.Stderr, "  keyclack -voices 16 -log-file /tmp/keyclack.log\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyclack %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args())
		os.Exit(1)
	}

	return opts
}
