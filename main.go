// ABOUTME: Entry point for epoch-select application
// ABOUTME: Handles command-line parsing and routing to CLI, TUI, or view modes

// Package main provides the entry point for epoch-select, an interactive
// workbench for reviewing and rejecting M/EEG epochs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"epoch-select/config"
	"epoch-select/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	rejPath := flag.String("rej", "", "rejection file to load/save (.txt, .tsv or .rej)")
	auto := flag.Bool("auto", false, "run threshold rejection non-interactively and exit")
	view := flag.Bool("view", false, "watch a rejection file read-only with live reload")
	threshold := flag.Float64("threshold", 0, "threshold value for -auto (default from config)")
	method := flag.String("method", "", "threshold method for -auto: absolute or p2p (default from config)")
	above := flag.Bool("above", false, "accept flag assigned to trials exceeding the threshold (false rejects them)")
	below := flag.Bool("below", true, "accept flag assigned to trials within the threshold")
	badChannels := flag.String("bad", "", "comma-separated channel names to exclude from statistics")
	debug := flag.Bool("debug", false, "enable debug logging to epoch-select-debug.log")
	dryRun := flag.Bool("dry-run", false, "preview rejection without writing changes")
	configPath := flag.String("config", "", "config file path (default: standard locations)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: epoch-select [flags] <data.epochs>")
		fmt.Println("Example: epoch-select -rej subject01.txt subject01.epochs")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	opts := RunOptions{
		EpochsPath:  args[0],
		RejPath:     *rejPath,
		BadChannels: *badChannels,
		Threshold:   *threshold,
		Method:      *method,
		MarkAbove:   *above,
		MarkBelow:   *below,
		DryRun:      *dryRun,
		DebugLog:    *debug,
		ConfigPath:  *configPath,
	}

	if *debug {
		if err := SetupDebugLog("epoch-select-debug.log"); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	if *view {
		if *rejPath == "" {
			log.Printf("View error: -view requires -rej")

			return 1
		}

		if err := RunViewMode(opts); err != nil {
			log.Printf("View error: %v", err)

			return 1
		}

		return 0
	}

	if *auto {
		if err := RunCLI(opts); err != nil {
			log.Printf("CLI error: %v", err)

			return 1
		}

		return 0
	}

	sess, err := InitializeSession(opts)
	if err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	resolvedConfigPath := opts.ConfigPath
	if resolvedConfigPath == "" {
		resolvedConfigPath = config.GetConfigPath()
	}

	tuiOpts := tui.Options{
		ConfigPath: resolvedConfigPath,
		DebugLog:   *debug,
	}

	if err := tui.Run(sess.Model, sess.Config, tuiOpts, debugf); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	return 0
}
