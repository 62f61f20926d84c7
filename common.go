// ABOUTME: Shared initialization code for all modes (CLI, TUI, View)
// ABOUTME: Provides session setup, config loading, and debug logging

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"epoch-select/config"
	"epoch-select/epoch"
	"epoch-select/rejection"
)

var debugLog *log.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	EpochsPath  string
	RejPath     string
	BadChannels string
	Threshold   float64
	Method      string
	MarkAbove   bool
	MarkBelow   bool
	DryRun      bool
	DebugLog    bool
	ConfigPath  string
}

// Session bundles everything a mode needs to run
type Session struct {
	Trials *epoch.Trials
	Model  *rejection.Model
	Config config.Config
}

// InitializeSession loads the trial data, opens the rejection session,
// and applies any bad-channel exclusions
func InitializeSession(opts RunOptions) (*Session, error) {
	trials, err := epoch.ReadFile(opts.EpochsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load epochs: %w", err)
	}

	if trials.Len() == 0 {
		return nil, fmt.Errorf("epochs file %s holds no trials", opts.EpochsPath)
	}

	doc, err := rejection.NewDocument(trials, opts.RejPath)
	if err != nil {
		return nil, err
	}

	if opts.BadChannels != "" {
		indices, err := resolveChannels(trials, opts.BadChannels)
		if err != nil {
			return nil, err
		}

		if err := doc.SetBadChannels(indices, true); err != nil {
			return nil, err
		}
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	cfg, _ := config.LoadConfig(configPath)

	return &Session{
		Trials: trials,
		Model:  rejection.NewModel(doc),
		Config: cfg,
	}, nil
}

// resolveChannels maps a comma-separated list of channel names to
// indices
func resolveChannels(trials *epoch.Trials, list string) ([]int, error) {
	var indices []int
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		i, ok := trials.ChannelIndex(name)
		if !ok {
			return nil, fmt.Errorf("unknown channel %q", name)
		}

		indices = append(indices, i)
	}

	return indices, nil
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	fileInfo, _ := os.Stdout.Stat()
	if (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}
