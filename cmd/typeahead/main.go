// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs typeahead as a msgpack IPC server, a line-mode CLI or a
terminal UI.

typeahead keeps the interaction state of autocomplete widgets: the text being
typed, the candidates resolved for it, the highlighted candidate and the
committed selection. Candidates come from a word dictionary stored in
Patricia tries and ranked by frequency.

# Usage

Start the IPC server with default settings:

	typeahead

Use a custom data directory and enable debug logging:

	typeahead -data /path/to/dict -d

Try the state machine interactively:

	typeahead -t
	typeahead -c -manual -multi

The data directory holds binary chunks named dict_0001.bin, dict_0002.bin...
and optional plain text word lists (*.txt, one "word [frequency]" per line).

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[autocomplete]
	auto_resolve = true
	multi_select = false
	show_selected = false
	min_trigger_length = 3

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true
	cache_size = 256

	[dict]
	max_words = 50000
	min_frequency_threshold = 20
	min_frequency_short_prefix = 24
	fuzzy = true

	[cli]
	default_limit = 10
	echo_input = false

Command line flags override the file.

# Flags

	-data string     directory with dictionary files (default "data/")
	-config string   path to a config file
	-d               debug logging
	-c               line-mode CLI
	-t               terminal UI
	-limit int       candidates per lookup
	-words int       maximum words to load, 0 for all
	-multi           accumulate selections
	-manual          resolve only on request
	-min int         input length that must be exceeded before resolving
	-no-filter       disable input filtering
	-version         show the version
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/tui"
	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/bastiangx/typeahead/pkg/suggest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

func main() {
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing the dictionary files")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the line-mode CLI")
	tuiMode := flag.Bool("t", false, "Run the terminal UI")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Number of candidates per lookup")
	wordLimit := flag.Int("words", defaults.Dict.MaxWords, "Maximum number of words to load (0 for all)")
	multi := flag.Bool("multi", defaults.Autocomplete.MultiSelect, "Accumulate selections")
	manual := flag.Bool("manual", !defaults.Autocomplete.AutoResolve, "Resolve only on request")
	minTrigger := flag.Int("min", defaults.Autocomplete.MinTriggerLength, "Input length (runes) to exceed before resolving")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering")
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["words"] {
		cfg.Dict.MaxWords = *wordLimit
	}
	if set["multi"] {
		cfg.Autocomplete.MultiSelect = *multi
	}
	if set["manual"] {
		cfg.Autocomplete.AutoResolve = !*manual
	}
	if set["min"] {
		cfg.Autocomplete.MinTriggerLength = *minTrigger
	}
	if *noFilter {
		cfg.Server.EnableFilter = false
	}

	interactive := *cliMode || *tuiMode
	resultLimit := cfg.Server.MaxLimit
	if interactive {
		resultLimit = cfg.CLI.DefaultLimit
	}
	if set["limit"] {
		resultLimit = *limit
	}

	resolver, err := buildResolver(*dataDir, cfg, resultLimit)
	if err != nil {
		log.Fatalf("Failed to init dictionary: %v", err)
	}

	switch {
	case *cliMode:
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(resolver, cfg.Autocomplete, os.Stdin, os.Stdout)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	case *tuiMode:
		model := tui.New(resolver, cfg.Autocomplete)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		if selected := model.Selected(); len(selected) > 0 {
			fmt.Println(strings.Join(selected, "\n"))
		}
	default:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		showStartupInfo(*dataDir)
		srv := server.NewServer(resolver, cfg.Autocomplete)
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// buildResolver loads the dictionary and wraps it for the state machine.
func buildResolver(dataDir string, cfg *config.Config, limit int) (autocomplete.Resolver[string], error) {
	completer := suggest.NewCompleter()
	completer.SetThresholds(cfg.Dict.MinFreqThreshold, cfg.Dict.MinFreqShortPrefix)

	stats, err := dictionary.LoadDir(dataDir, cfg.Dict.MaxWords, completer)
	switch {
	case errors.Is(err, dictionary.ErrNoDictionary):
		log.Warnf("No dictionary in %s, running with an empty one", dataDir)
	case err != nil:
		return nil, err
	default:
		log.Debugf("Loaded %d words from %d files", stats.Words, stats.Files)
	}

	base := suggest.NewResolver(completer, suggest.ResolverOptions{
		Limit:     limit,
		MinPrefix: cfg.Server.MinPrefix,
		MaxPrefix: cfg.Server.MaxPrefix,
		Filter:    cfg.Server.EnableFilter,
		Fuzzy:     cfg.Dict.Fuzzy,
		EchoInput: cfg.CLI.EchoInput,
	})
	if cfg.Server.CacheSize <= 0 {
		return base, nil
	}
	cached, err := suggest.NewCachedResolver[string](base, cfg.Server.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func printVersion() {
	l := logger.New(os.Stderr, "")
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ typeahead ] autocomplete state over msgpack")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo writes a short banner to stderr; stdout carries the IPC stream.
func showStartupInfo(dataDir string) {
	l := logger.Default(AppName)
	l.SetLevel(log.InfoLevel)
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("data dir: ( %s )", dataDir)
	l.Info("status: ready")
}
