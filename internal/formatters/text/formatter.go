// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"hintscan/internal/core"
	"hintscan/internal/formatters"
	"hintscan/internal/formatters/shared"
	"hintscan/internal/fuzzy"
	"hintscan/internal/parallel"
)

const (
	categoryWidth = 16
	valueWidth    = 18
	textWidth     = 30
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results []core.DocumentResult, stats *parallel.ProcessingStats, options formatters.FormatterOptions) (string, error) {
	if len(results) == 0 {
		return "No documents scanned.", nil
	}

	var builder strings.Builder
	for i, r := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		f.appendDocument(&builder, r, options)
	}
	f.appendFooter(&builder, results, stats, options)
	return builder.String(), nil
}

func (f *Formatter) paint(name string, options formatters.FormatterOptions, format string, a ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, a...)
	}
	return f.colors[name].Sprintf(format, a...)
}

func (f *Formatter) appendDocument(builder *strings.Builder, r core.DocumentResult, options formatters.FormatterOptions) {
	name, text := "<unknown>", ""
	if r.Document != nil {
		name, text = r.Document.Name, r.Document.Text
	}
	builder.WriteString(f.paint("white", options, "== %s ==", name))
	builder.WriteString("\n")

	if r.Error != "" {
		builder.WriteString(f.paint("red", options, "error: %s", r.Error))
		builder.WriteString("\n")
		return
	}

	if len(r.Candidates) == 0 && r.Entities == nil {
		builder.WriteString("No candidates found.\n")
		return
	}

	if len(r.Candidates) > 0 {
		f.appendHeaders(builder, options)
		for _, c := range r.Candidates {
			line, _ := shared.LineColumn(text, c.Span.Start)
			fmt.Fprintf(builder, "%s %s %s %s %s\n",
				f.paint("cyan", options, "%s", pad(c.Category.String(), categoryWidth)),
				f.paint("green", options, "%s", pad(c.Value(), valueWidth)),
				f.paint("magenta", options, "line %5d", line),
				f.paint("blue", options, "%-11s", fmt.Sprintf("[%d:%d]", c.Span.Start, c.Span.End)),
				pad(c.Text, textWidth),
			)
			if (options.Verbose || options.ShowContext) && c.Context != "" {
				fmt.Fprintf(builder, "    context: %s\n", flatten(c.Context))
			}
		}
	}

	if r.Entities != nil {
		f.appendEntities(builder, r.Entities, options)
	}
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, options formatters.FormatterOptions) {
	header := fmt.Sprintf("%s %s %-10s %-11s %s", pad("CATEGORY", categoryWidth), pad("VALUE", valueWidth), "LINE", "SPAN", "TEXT")
	builder.WriteString(f.paint("white", options, "%s", header))
	builder.WriteString("\n")
	totalWidth := categoryWidth + 1 + valueWidth + 1 + 10 + 1 + 11 + 1 + textWidth
	builder.WriteString(f.paint("white", options, "%s", strings.Repeat("-", totalWidth)))
	builder.WriteString("\n")
}

func (f *Formatter) appendEntities(builder *strings.Builder, e *fuzzy.EntityMatchResult, options formatters.FormatterOptions) {
	decisionColor := "green"
	switch e.Decision {
	case fuzzy.DecisionConfirm:
		decisionColor = "yellow"
	case fuzzy.DecisionReenter:
		decisionColor = "red"
	}
	fmt.Fprintf(builder, "Entities: decision %s\n", f.paint(decisionColor, options, "%s", e.Decision))

	f.appendMatches(builder, "organization", e.Organizations, options)
	f.appendMatches(builder, "facility", e.Facilities, options)
	if len(e.Organizations) == 0 && len(e.Facilities) == 0 {
		builder.WriteString("  no organization or facility matched\n")
	}

	if e.NeedsConfirmation && e.ConfirmationMessage != "" {
		fmt.Fprintf(builder, "  %s %s\n", f.paint("yellow", options, "?"), e.ConfirmationMessage)
	}
	if e.MultipleUncertain {
		fmt.Fprintf(builder, "  %s\n", f.paint("red", options, "several uncertain matches, please re-enter"))
	}
}

func (f *Formatter) appendMatches(builder *strings.Builder, label string, matches []fuzzy.MatchResult, options formatters.FormatterOptions) {
	for _, m := range matches {
		fmt.Fprintf(builder, "  %-12s %s %s %s\n",
			label,
			f.paint("green", options, "%s", pad(m.Matched, valueWidth)),
			f.paint("blue", options, "%6.2f%%", m.Confidence*100),
			f.paint("magenta", options, "(%s: %s)", m.MatchType, m.Original),
		)
	}
}

func (f *Formatter) appendFooter(builder *strings.Builder, results []core.DocumentResult, stats *parallel.ProcessingStats, options formatters.FormatterOptions) {
	failed, entities := 0, 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if r.Entities != nil {
			entities += len(r.Entities.Organizations) + len(r.Entities.Facilities)
		}
	}

	builder.WriteString("\n")
	summary := fmt.Sprintf("Scanned %d document(s): %d candidate(s), %d entity match(es)",
		len(results), shared.CountCandidates(results), entities)
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	builder.WriteString(f.paint("white", options, "%s", summary))
	builder.WriteString("\n")

	if options.Verbose && stats != nil {
		fmt.Fprintf(builder, "Workers: %d, total time %s, average %s per document\n",
			stats.WorkerCount, stats.TotalDuration.Round(time.Millisecond), stats.AvgDocumentTime.Round(time.Millisecond))
	}
}

// cellWidth counts East Asian wide and fullwidth runes as two columns
func cellWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// pad flattens s, truncates it to limit columns and pads it with spaces
func pad(s string, limit int) string {
	s = flatten(s)
	if cellWidth(s) > limit {
		var b strings.Builder
		used := 0
		for _, r := range s {
			w := cellWidth(string(r))
			if used+w > limit-3 {
				break
			}
			b.WriteRune(r)
			used += w
		}
		s = b.String() + "..."
	}
	if w := cellWidth(s); w < limit {
		s += strings.Repeat(" ", limit-w)
	}
	return s
}

func flatten(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
