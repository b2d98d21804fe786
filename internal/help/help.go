// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"hintscan/internal/config"
	"hintscan/internal/detector"
	"hintscan/internal/formatters"
	"hintscan/internal/hints"
	"hintscan/internal/paths"
)

// System renders help content for the command line
type System struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewSystem creates a help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"emphasis": color.New(color.FgWhite, color.Bold),
		"negative": color.New(color.FgRed),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &System{out: out, colors: colors}
}

func (h *System) println(a ...interface{}) {
	fmt.Fprintln(h.out, a...)
}

// ShowGeneralHelp displays usage, options and examples
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "hintscan - candidate extraction and entity resolution")
	h.println("=====================================================")
	h.println()
	h.colors["header"].Fprintln(h.out, "USAGE:")
	h.println("  hintscan [options] [file ...]")
	h.println("  echo '은행 의왕센터 내부망 pg' | hintscan [options]")
	h.println()

	h.colors["header"].Fprintln(h.out, "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  -profile\t<name>\tProfile to apply from the configuration")
	fmt.Fprintln(w, "  -list-profiles\t\tList available profiles")
	fmt.Fprintf(w, "  -format\t<format>\tOutput format: %s (default: text)\n", strings.Join(formatters.List(), ", "))
	fmt.Fprintln(w, "  -list-formats\t\tList output formats")
	fmt.Fprintln(w, "  -categories\t<names>\tComma-separated categories to extract, or all (default: all)")
	fmt.Fprintln(w, "  -list-categories\t\tList categories and their canonical values")
	fmt.Fprintln(w, "  -mode\t<mode>\textract, match or both (default: both)")
	fmt.Fprintln(w, "  -section\t<header>\tOnly scan the named [header] section")
	fmt.Fprintln(w, "  -depth\t<n>\tQuoted-block recursion depth, 0 to 2")
	fmt.Fprintln(w, "  -context\t<n>\tContext characters around each candidate")
	fmt.Fprintln(w, "  -show-context\t\tInclude each candidate's context window in the output")
	fmt.Fprintln(w, "  -workers\t<n>\tParallel workers (default: CPU count, max 8)")
	fmt.Fprintln(w, "  -output\t<path>\tWrite results to a file instead of stdout")
	fmt.Fprintln(w, "  -verbose\t\tInclude context windows and run statistics")
	fmt.Fprintln(w, "  -debug\t\tPrint processing steps and timings to stderr")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	fmt.Fprintln(w, "  -help [category]\t\tShow this help, or details for one category")
	w.Flush()

	h.println()
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  hintscan request.txt")
	h.colors["example"].Fprintln(h.out, "  hintscan -mode extract -categories ZoneHint,EngineHint -format json request.txt")
	h.colors["example"].Fprintln(h.out, "  hintscan -section '[요청사항]' -profile strict design.pdf")
	h.println()

	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	if file := paths.GetConfigFile(); file != "" {
		fmt.Fprintf(h.out, "  User config: %s\n", file)
	}
	h.println("  Project config: hintscan.yaml or .hintscan.yaml (in current directory)")
	fmt.Fprintf(h.out, "  Environment: %s - Override config directory\n", paths.ConfigDirEnv)
}

// ShowCategoriesHelp lists every category with its description
func (h *System) ShowCategoriesHelp() {
	h.colors["title"].Fprintln(h.out, "Available Categories")
	h.println("====================")
	h.println()

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CATEGORY\tDESCRIPTION")
	fmt.Fprintln(w, "  --------\t-----------")
	for _, c := range detector.AllCategories() {
		fmt.Fprintf(w, "  %s\t%s\n", c, c.Description())
	}
	w.Flush()

	h.println()
	h.println("For the canonical values of a category, use:")
	h.colors["example"].Fprintln(h.out, "  hintscan -help ZoneHint")
}

// ShowCategoryHelp displays the canonical values spec produces for one
// category. It reports false for an unknown name.
func (h *System) ShowCategoryHelp(name string, spec hints.VocabularySpec) bool {
	c, ok := detector.ParseCategory(name)
	if !ok {
		h.colors["negative"].Fprintf(h.out, "Error: category '%s' not found.\n", name)
		h.println("Use 'hintscan -list-categories' to see the available categories.")
		return false
	}

	h.colors["title"].Fprintf(h.out, "%s\n", c)
	h.println(strings.Repeat("=", len(c.String())))
	h.println(c.Description())
	h.println()

	values := spec.Values(c)
	if len(values) == 0 {
		h.println("Free-form category: candidates carry their raw text.")
		return true
	}
	h.colors["header"].Fprintln(h.out, "CANONICAL VALUES:")
	for _, v := range values {
		fmt.Fprint(h.out, "  - ")
		h.colors["item"].Fprintln(h.out, v)
	}
	return true
}

// ShowProfiles lists the profiles of cfg
func (h *System) ShowProfiles(cfg *config.Config) {
	names := cfg.ListProfiles()
	if len(names) == 0 {
		h.println("No profiles defined.")
		return
	}
	h.colors["header"].Fprintln(h.out, "PROFILES:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		if p := cfg.GetProfile(name); p != nil {
			fmt.Fprintf(w, "  %s\t%s\n", name, p.Description)
		}
	}
	w.Flush()
}

// ShowFormats lists the registered output formats
func (h *System) ShowFormats() {
	h.colors["header"].Fprintln(h.out, "FORMATS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, info := range formatters.GetSupportedFormats() {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", info.Name, info.Extension, info.Description)
	}
	w.Flush()
}
