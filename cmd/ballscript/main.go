package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Demindiro/ballscript/pkg/driver"
)

const cliToolVersion = "ballscript-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	verbose := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "--verbose", "-v":
			verbose = true
		default:
			rest = append(rest, arg)
		}
	}
	args = rest

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], logger)
	default:
		return runEntry(args, logger)
	}
}

func runEntry(args []string, logger *slog.Logger) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	manifest, manifestErr := loadManifestFrom(".")
	if manifestErr != nil && !errors.Is(manifestErr, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", manifestErr)
		return 1
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "ballscript run requires a manifest target or program file (%s not found)\n", driver.ManifestFileName)
			return 1
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		return executeTarget(manifest, target, logger)
	}

	candidate := args[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok {
			return executeTarget(manifest, target, logger)
		}
	}

	// Treat the argument as a direct program file path. A manifest next
	// to the program still contributes its globals.
	activeManifest := manifest
	if absCandidate, err := filepath.Abs(candidate); err == nil {
		if manifestPath, findErr := driver.FindManifest(filepath.Dir(absCandidate)); findErr == nil {
			if activeManifest == nil || filepath.Clean(activeManifest.Path) != filepath.Clean(manifestPath) {
				m, loadErr := driver.LoadManifest(manifestPath)
				if loadErr != nil {
					fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", candidate, loadErr)
					return 1
				}
				activeManifest = m
			}
		} else if !errors.Is(findErr, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "failed to locate manifest for %s: %v\n", candidate, findErr)
			return 1
		}
	}

	opts := driver.Options{Logger: logger}
	if activeManifest != nil {
		opts.Globals = activeManifest.Globals
	}
	return executeFile(candidate, opts)
}

func executeTarget(manifest *driver.Manifest, target *driver.TargetSpec, logger *slog.Logger) int {
	entryPath, err := manifest.ResolveMain(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve target %q: %v\n", target.OriginalName, err)
		return 1
	}
	logger.Debug("running target", "target", target.OriginalName, "main", entryPath)
	return executeFile(entryPath, driver.Options{Logger: logger, Globals: manifest.Globals})
}

func executeFile(path string, opts driver.Options) int {
	if strings.TrimSpace(path) == "" {
		fmt.Fprintln(os.Stderr, "ballscript run requires a program file")
		return 1
	}
	if err := driver.RunFile(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ballscript run [target]")
	fmt.Fprintln(os.Stderr, "  ballscript run <program.json>")
	fmt.Fprintln(os.Stderr, "  ballscript <program.json>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -v, --verbose   enable debug logging")
}
