// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"hintscan/internal/core"
	"hintscan/internal/formatters"
	"hintscan/internal/formatters/shared"
	"hintscan/internal/fuzzy"
	"hintscan/internal/parallel"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values, one row per candidate or entity match"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

// Row kinds
const (
	KindCandidate    = "candidate"
	KindOrganization = "organization"
	KindFacility     = "facility"
	KindError        = "error"
)

func (f *Formatter) Format(results []core.DocumentResult, stats *parallel.ProcessingStats, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Document", "Kind", "Category", "Text", "Normalized", "Start", "End", "Line", "Confidence", "Match Type", "Decision"}
	withContext := options.Verbose || options.ShowContext
	if withContext {
		headers = append(headers, "Context")
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range results {
		name, text := "", ""
		if r.Document != nil {
			name, text = r.Document.Name, r.Document.Text
		}
		var rows [][]string
		if r.Error != "" {
			rows = append(rows, f.row(withContext, name, KindError, "", r.Error, "", "", "", "", "", "", "", ""))
		}
		for _, c := range r.Candidates {
			line, _ := shared.LineColumn(text, c.Span.Start)
			rows = append(rows, f.row(withContext, name, KindCandidate, c.Category.String(), c.Text, c.Normalized,
				strconv.Itoa(c.Span.Start), strconv.Itoa(c.Span.End), strconv.Itoa(line), "", "", "", c.Context))
		}
		if e := r.Entities; e != nil {
			decision := e.Decision.String()
			rows = append(rows, f.matchRows(withContext, name, KindOrganization, e.Organizations, decision)...)
			rows = append(rows, f.matchRows(withContext, name, KindFacility, e.Facilities, decision)...)
		}
		if err := w.WriteAll(rows); err != nil {
			return "", fmt.Errorf("error writing CSV rows: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV: %w", err)
	}
	return b.String(), nil
}

func (f *Formatter) matchRows(withContext bool, name, kind string, matches []fuzzy.MatchResult, decision string) [][]string {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, f.row(withContext, name, kind, "", m.Original, m.Matched, "", "", "",
			strconv.FormatFloat(m.Confidence, 'f', 2, 64), string(m.MatchType), decision, ""))
	}
	return rows
}

func (f *Formatter) row(withContext bool, name, kind, category, text, normalized, start, end, line, confidence, matchType, decision, context string) []string {
	row := []string{name, kind, category, text, normalized, start, end, line, confidence, matchType, decision}
	if withContext {
		row = append(row, context)
	}
	return row
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
