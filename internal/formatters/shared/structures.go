// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"strings"
	"unicode/utf8"

	"hintscan/internal/core"
	"hintscan/internal/formatters"
	"hintscan/internal/fuzzy"
	"hintscan/internal/parallel"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Documents []JSONDocument `json:"documents" yaml:"documents"`
	Summary   *Summary       `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Summary reports run statistics with durations in milliseconds
type Summary struct {
	TotalDocuments  int   `json:"total_documents" yaml:"total_documents"`
	FailedDocuments int   `json:"failed_documents" yaml:"failed_documents"`
	TotalCandidates int   `json:"total_candidates" yaml:"total_candidates"`
	TotalEntities   int   `json:"total_entities" yaml:"total_entities"`
	WorkerCount     int   `json:"worker_count" yaml:"worker_count"`
	DurationMS      int64 `json:"duration_ms" yaml:"duration_ms"`
	AvgDocumentMS   int64 `json:"avg_document_ms" yaml:"avg_document_ms"`
}

// NewSummary converts processing stats; nil in, nil out
func NewSummary(stats *parallel.ProcessingStats) *Summary {
	if stats == nil {
		return nil
	}
	return &Summary{
		TotalDocuments:  stats.TotalDocuments,
		FailedDocuments: stats.FailedDocuments,
		TotalCandidates: stats.TotalCandidates,
		TotalEntities:   stats.TotalEntities,
		WorkerCount:     stats.WorkerCount,
		DurationMS:      stats.TotalDuration.Milliseconds(),
		AvgDocumentMS:   stats.AvgDocumentTime.Milliseconds(),
	}
}

// JSONDocument is one scanned document
type JSONDocument struct {
	Name       string                   `json:"name" yaml:"name"`
	Path       string                   `json:"path,omitempty" yaml:"path,omitempty"`
	Format     string                   `json:"format" yaml:"format"`
	Error      string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Candidates []JSONCandidate          `json:"candidates" yaml:"candidates"`
	Entities   *fuzzy.EntityMatchResult `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// JSONCandidate represents a single candidate in JSON/YAML format
type JSONCandidate struct {
	Text       string `json:"text" yaml:"text"`
	Category   string `json:"category" yaml:"category"`
	Normalized string `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Start      int    `json:"start" yaml:"start"`
	End        int    `json:"end" yaml:"end"`
	Line       int    `json:"line" yaml:"line"`
	Column     int    `json:"column" yaml:"column"`
	Context    string `json:"context,omitempty" yaml:"context,omitempty"`
}

// LineColumn converts a byte offset into a 1-based line and a 1-based
// column counted in runes
func LineColumn(text string, offset int) (line, column int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	column = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, column
}

// ConvertToJSONFormat converts scan results to the JSON/YAML structure
func ConvertToJSONFormat(results []core.DocumentResult, stats *parallel.ProcessingStats, options formatters.FormatterOptions) JSONResponse {
	response := JSONResponse{Documents: make([]JSONDocument, 0, len(results))}
	if options.Verbose {
		response.Summary = NewSummary(stats)
	}

	for _, r := range results {
		doc := JSONDocument{
			Error:      r.Error,
			Candidates: make([]JSONCandidate, 0, len(r.Candidates)),
			Entities:   r.Entities,
		}
		var text string
		if r.Document != nil {
			doc.Name = r.Document.Name
			doc.Path = r.Document.Path
			doc.Format = string(r.Document.Format)
			text = r.Document.Text
		}

		for _, c := range r.Candidates {
			line, col := LineColumn(text, c.Span.Start)
			jc := JSONCandidate{
				Text:       c.Text,
				Category:   c.Category.String(),
				Normalized: c.Normalized,
				Start:      c.Span.Start,
				End:        c.Span.End,
				Line:       line,
				Column:     col,
			}
			if options.ShowContext || options.Verbose {
				jc.Context = c.Context
			}
			doc.Candidates = append(doc.Candidates, jc)
		}
		response.Documents = append(response.Documents, doc)
	}
	return response
}

// CountCandidates totals the candidates across results
func CountCandidates(results []core.DocumentResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Candidates)
	}
	return n
}
