// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"hintscan/internal/config"
	"hintscan/internal/core"
	"hintscan/internal/formatters"
	_ "hintscan/internal/formatters/csv"
	_ "hintscan/internal/formatters/json"
	_ "hintscan/internal/formatters/text"
	_ "hintscan/internal/formatters/yaml"
	"hintscan/internal/help"
	"hintscan/internal/observability"
	"hintscan/internal/parallel"
	"hintscan/internal/source"
	"hintscan/internal/version"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// cliFlags holds command line flag values
type cliFlags struct {
	configFile     string
	profileName    string
	listProfiles   bool
	outputFormat   string
	listFormats    bool
	categories     string
	listCategories bool
	mode           string
	section        string
	depth          int
	contextChars   int
	showContext    bool
	workers        int
	outputFile     string
	verbose        bool
	debug          bool
	noColor        bool
	showHelp       bool
	showVersion    bool
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *cliFlags) {
	fs := flag.NewFlagSet("hintscan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &cliFlags{}
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&f.profileName, "profile", "", "Profile name to use from config file")
	fs.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles")
	fs.StringVar(&f.outputFormat, "format", "", "Output format: text, json, csv, yaml (default: text)")
	fs.BoolVar(&f.listFormats, "list-formats", false, "List output formats")
	fs.StringVar(&f.categories, "categories", "", "Comma-separated categories to extract, or all")
	fs.BoolVar(&f.listCategories, "list-categories", false, "List categories")
	fs.StringVar(&f.mode, "mode", "", "extract, match or both (default: both)")
	fs.StringVar(&f.section, "section", "", "Only scan the named [header] section")
	fs.IntVar(&f.depth, "depth", 0, "Quoted-block recursion depth, 0 to 2")
	fs.IntVar(&f.contextChars, "context", 0, "Context characters around each candidate")
	fs.BoolVar(&f.showContext, "show-context", false, "Include each candidate's context window in the output")
	fs.IntVar(&f.workers, "workers", 0, "Parallel workers (default: CPU count, max 8)")
	fs.StringVar(&f.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	fs.BoolVar(&f.verbose, "verbose", false, "Include context windows and run statistics")
	fs.BoolVar(&f.debug, "debug", false, "Print processing steps and timings to stderr")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.showHelp, "help", false, "Show help information")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	return fs, f
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// loadConfiguration loads the config file, applies the profile, then the flags
func loadConfiguration(fs *flag.FlagSet, flags *cliFlags, stderr io.Writer) (*config.Config, error) {
	var cfg *config.Config
	if flags.configFile != "" {
		loaded, err := config.LoadConfig(flags.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		loaded, err := config.LoadConfigOrDefault("")
		if err != nil {
			fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
			fmt.Fprintf(stderr, "Using default configuration\n")
		}
		cfg = loaded
	}

	if flags.profileName != "" {
		if err := cfg.ApplyProfile(flags.profileName); err != nil {
			return nil, err
		}
	}

	d := &cfg.Defaults
	if isFlagSet(fs, "format") {
		d.Format = flags.outputFormat
	}
	if isFlagSet(fs, "categories") {
		d.Categories = core.SplitList(flags.categories)
	}
	if isFlagSet(fs, "mode") {
		d.Mode = strings.ToLower(strings.TrimSpace(flags.mode))
	}
	if isFlagSet(fs, "depth") {
		d.MaxDepth = flags.depth
	}
	if isFlagSet(fs, "context") {
		d.ContextChars = flags.contextChars
	}
	if isFlagSet(fs, "workers") {
		d.Workers = flags.workers
	}
	d.Verbose = d.Verbose || flags.verbose
	d.Debug = d.Debug || flags.debug
	d.NoColor = d.NoColor || flags.noColor

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadInputs reads the named files, or stdin when none are given
func loadInputs(ctx context.Context, files []string, stdin io.Reader, workers int, observer *observability.StandardObserver) ([]*source.Document, error) {
	if len(files) > 0 {
		return source.NewLoader(observer).LoadAll(ctx, files, workers)
	}
	doc, err := source.ReadFrom("stdin", stdin)
	if err != nil {
		return nil, err
	}
	return []*source.Document{doc}, nil
}

func writeOutput(path, output string, stdout io.Writer) error {
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	if path == "" {
		_, err := io.WriteString(stdout, output)
		return err
	}
	if err := os.WriteFile(path, []byte(output), 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, flags := newFlagSet(stderr)
	fs.Usage = func() { help.NewSystem(stderr, true).ShowGeneralHelp() }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return exitOK
	}

	cfg, err := loadConfiguration(fs, flags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	noColor := cfg.Defaults.NoColor || flags.outputFile != "" || !isTerminal(stdout)
	h := help.NewSystem(stdout, noColor)

	switch {
	case flags.showHelp:
		if fs.NArg() > 0 {
			if !h.ShowCategoryHelp(fs.Arg(0), cfg.Vocabulary.VocabularySpec) {
				return exitUsage
			}
			return exitOK
		}
		h.ShowGeneralHelp()
		return exitOK
	case flags.listCategories:
		h.ShowCategoriesHelp()
		return exitOK
	case flags.listProfiles:
		h.ShowProfiles(cfg)
		return exitOK
	case flags.listFormats:
		h.ShowFormats()
		return exitOK
	}

	if fs.NArg() == 0 && isTerminal(stdin) {
		help.NewSystem(stderr, noColor).ShowGeneralHelp()
		return exitUsage
	}

	format := cfg.Defaults.Format
	if _, ok := formatters.Get(format); !ok {
		fmt.Fprintf(stderr, "Error: unsupported format '%s'. Available formats: %s\n", format, strings.Join(formatters.List(), ", "))
		return exitUsage
	}
	mode, err := core.ParseMode(cfg.Defaults.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	var observer *observability.StandardObserver
	if cfg.Defaults.Debug {
		observer = observability.NewDebugObserver(stderr).StandardObserver
	}

	scanner, err := core.NewScanner(core.ScanConfig{
		Config:  cfg,
		Mode:    mode,
		Section: flags.section,
		Workers: cfg.Defaults.Workers,
	}, nil, observer)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	docs, err := loadInputs(ctx, fs.Args(), stdin, cfg.Defaults.Workers, observer)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	var progress parallel.ProgressCallback
	if len(docs) > 1 && !cfg.Defaults.Debug && isTerminal(stderr) {
		progress = func(completed, total int, current string) {
			fmt.Fprintf(stderr, "\rScanning %d/%d: %-40.40s", completed, total, current)
			if completed == total {
				fmt.Fprint(stderr, "\r\033[K")
			}
		}
	}

	result, err := scanner.ScanDocuments(ctx, docs, progress)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	output, err := formatters.Export(format, result.Documents, result.Stats, formatters.FormatterOptions{
		Verbose:     cfg.Defaults.Verbose,
		NoColor:     noColor,
		ShowContext: flags.showContext,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}
	if err := writeOutput(flags.outputFile, output, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	if result.Failed() > 0 {
		return exitFailed
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
