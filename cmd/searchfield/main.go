// Copyright 2025 The Searchfield Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the searchfield suggestion engine as an IPC server or as a
CLI [DBG] application.

Searchfield filters a candidate list while the user types into a text field,
highlights the matched spans and offers inline ghost-text completions. The
field and the dropdown belong to the client: the binary only owns the engine
and answers with the rows to render.

# Usage

Start the server with a candidate file:

	searchfield -items domains.txt

Use a custom config and enable debug mode:

	searchfield -items domains.txt -config ./config.toml -d

Run in CLI mode for interactive testing:

	searchfield -c -items domains.txt -limit 5

# Candidate files

The -items file is read as plain text (one title per line), TSV (title, tab,
subtitle), a binary word list or a TOML item list with search ranges. The
format is taken from the extension or sniffed from the content, and -format
forces one. A directory is read as dict_*.bin chunk files in name order.

	[[item]]
	title = "user@gmail.com"
	subtitle = "Work"
	title_range = [5, 9]
	value = "u-17"

-export writes the loaded titles back out as a binary word list and exits.

# Configuration

Engine options are read from a TOML file, created with defaults on first run:

	[engine]
	max_results = 10
	min_characters = 0
	typing_stopped_delay_ms = 800
	comparison = "case_insensitive"
	inline_mode = false
	start_filtering_after = ""

	[server]
	max_candidates = 100000
	max_text_length = 256

	[cli]
	default_limit = 10
	highlight = true

# IPC Protocol

The server speaks msgpack on stdin/stdout, see package server for the ops:

	{"id": "2", "op": "type", "text": "user@gm"}
	{"id": "2", "r": [{"t": "gmail.com", "x": "ail.com", "i": 0}], "c": 1, "v": true, "inl": "ail.com", "t": 42}

# Command Line Flags

	-version    Show current version
	-d          Enable debug mode with detailed logging
	-c          Run in CLI mode instead of server mode
	-config     Path to a custom config file
	-items      Candidate file or chunk directory
	-format     Candidate file format: auto, text, tsv, bin, toml
	-limit      Rows to show (CLI mode)
	-dedupe     Drop repeated titles while loading
	-export     Write the loaded titles as a binary word list to this path
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/searchfield/internal/cli"
	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/bastiangx/searchfield/pkg/config"
	"github.com/bastiangx/searchfield/pkg/dictionary"
	"github.com/bastiangx/searchfield/pkg/server"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "searchfield"
	gh      = "https://github.com/bastiangx/searchfield"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, candidates and the engine, then hands over to the server or CLI.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configFile := flag.String("config", "", "Path to custom config.toml file")
	itemsFile := flag.String("items", "", "Candidate file, or a directory of dict_*.bin chunks")
	formatName := flag.String("format", "auto", "Candidate file format (auto, text, tsv, bin, toml)")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of rows to show in CLI mode (0 for all)")
	dedupe := flag.Bool("dedupe", false, "Drop repeated titles while loading")
	exportPath := flag.String("export", "", "Write the loaded titles as a binary word list and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.ActiveConfigPath(configPath))

	format, err := dictionary.ParseFormat(*formatName)
	if err != nil {
		log.Fatalf("Invalid -format: %v", err)
	}

	items, source := loadItems(*itemsFile, format, appConfig.Server.MaxCandidates, *dedupe)

	if *exportPath != "" {
		if err := exportItems(*exportPath, items); err != nil {
			log.Fatalf("Failed to export candidates: %v", err)
		}
		log.Infof("Wrote %s candidates to %s", utils.FormatWithCommas(len(items)), *exportPath)
		return
	}

	opts := appConfig.Options()
	if *cliMode {
		opts.MaxResults = *limit
	}
	engine := suggest.NewEngine(opts)
	engine.SetCandidates(items)

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "candidates", len(items), "limit", *limit, "mode", opts.Mode)

		inputHandler := cli.NewInputHandler(engine, appConfig.CLI.Highlight)
		if configPath != "" {
			inputHandler.SaveOptions = func(o suggest.Options) error {
				return appConfig.Update(configPath, o)
			}
		}
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, os.Stdin, os.Stdout)

	showStartupInfo(source, len(items))

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadItems resolves and reads the candidate file. Without one the engine
// starts empty and waits for set_items.
func loadItems(name string, format dictionary.FileFormat, maxItems int, dedupe bool) ([]*suggest.Item, string) {
	if name == "" {
		log.Warn("No candidate file specified, running with an empty candidate set...")
		return nil, "none"
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	path, ok := pathResolver.ItemsPath(name)
	if !ok {
		log.Fatalf("Candidate file not found: %s", name)
	}

	loader := dictionary.NewLoader(maxItems, dedupe)
	if utils.IsDir(path) {
		items, err := loader.LoadChunks(path)
		if err != nil {
			log.Fatalf("Failed to load chunks: %v", err)
		}
		return items, path
	}

	if format != dictionary.FormatUnknown {
		if err := dictionary.ValidateFileFormat(path, format); err != nil {
			log.Fatalf("Invalid candidate file: %v", err)
		}
	}
	items, stats, err := loader.Load(path, format)
	if err != nil {
		log.Fatalf("Failed to load candidates: %v", err)
	}
	log.Debug("Candidates loaded", "format", stats.Format, "read", stats.Read, "dropped", stats.Dropped)
	return items, path
}

func exportItems(path string, items []*suggest.Item) error {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dictionary.WriteBinary(file, titles); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ searchfield ] Suggestions for text fields, as you type")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(source string, candidates int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, " searchfield ")
	fmt.Fprintln(os.Stderr, "=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("candidates: %s from ( %s )", utils.FormatWithCommas(candidates), source)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
