// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"strings"

	"hintscan/internal/config"
	"hintscan/internal/detector"
	"hintscan/internal/extract"
	"hintscan/internal/fuzzy"
	"hintscan/internal/observability"
	"hintscan/internal/parallel"
	"hintscan/internal/source"
)

// Mode selects which stages a scan runs
type Mode string

const (
	ModeExtract Mode = "extract"
	ModeMatch   Mode = "match"
	ModeBoth    Mode = "both"
)

// ParseMode accepts extract, match or both; empty means both
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeBoth, nil
	case ModeExtract, ModeMatch, ModeBoth:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, s)
	}
}

func (m Mode) extracts() bool { return m == ModeExtract || m == ModeBoth }
func (m Mode) matches() bool  { return m == ModeMatch || m == ModeBoth }

// ScanConfig holds configuration for scanning operations.
type ScanConfig struct {
	Config *config.Config
	Mode   Mode
	// Section restricts the scan to one "[header]" section when set
	Section string
	Workers int
}

// DocumentResult is the outcome for one document
type DocumentResult struct {
	Document   *source.Document         `json:"document" yaml:"document"`
	Candidates []detector.Candidate     `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Entities   *fuzzy.EntityMatchResult `json:"entities,omitempty" yaml:"entities,omitempty"`
	Error      string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanResult holds the results of a scanning operation.
type ScanResult struct {
	Documents []DocumentResult
	Stats     *parallel.ProcessingStats
}

// Failed counts documents that could not be scanned
func (r *ScanResult) Failed() int {
	n := 0
	for _, d := range r.Documents {
		if d.Error != "" {
			n++
		}
	}
	return n
}

// Scanner runs extraction and entity matching over documents
type Scanner struct {
	engine   *extract.Engine
	resolver *fuzzy.Resolver
	mode     Mode
	section  string
	workers  int
	observer *observability.StandardObserver
}

// NewScanner builds the engine and resolver for sc through factory. A nil
// factory builds a private one.
func NewScanner(sc ScanConfig, factory *Factory, observer *observability.StandardObserver) (*Scanner, error) {
	cfg := sc.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if factory == nil {
		factory = NewFactory(observer)
	}
	mode := sc.Mode
	if mode == "" {
		mode = ModeBoth
	}

	s := &Scanner{mode: mode, section: sc.Section, workers: sc.Workers, observer: observer}
	if mode.extracts() {
		engine, err := factory.Engine(cfg)
		if err != nil {
			return nil, err
		}
		s.engine = engine
	}
	if mode.matches() {
		resolver, err := factory.Resolver(cfg)
		if err != nil {
			return nil, err
		}
		s.resolver = resolver
	}
	return s, nil
}

// ScanText runs the configured stages over one document. It satisfies
// parallel.Handler.
func (s *Scanner) ScanText(ctx context.Context, doc *source.Document) (parallel.Output, error) {
	if err := ctx.Err(); err != nil {
		return parallel.Output{}, err
	}

	text := doc.Text
	var out parallel.Output

	if s.section != "" {
		span, ok := extract.SectionRange(text, s.section)
		if !ok {
			return out, nil
		}
		if s.engine != nil {
			out.Candidates = s.engine.ExtractSection(text, s.section)
		}
		text = text[span.Start:span.End]
	} else if s.engine != nil {
		out.Candidates = s.engine.Extract(text)
	}

	if s.resolver != nil {
		res := s.resolver.MatchEntities(text)
		out.Entities = &res
	}
	return out, nil
}

// ScanDocuments scans docs in parallel and keeps their order
func (s *Scanner) ScanDocuments(ctx context.Context, docs []*source.Document, progress parallel.ProgressCallback) (*ScanResult, error) {
	pp := parallel.NewParallelProcessor(s.workers, s.observer)
	results, stats, err := pp.ProcessDocuments(ctx, docs, s.ScanText, progress)

	out := &ScanResult{Stats: stats, Documents: make([]DocumentResult, len(docs))}
	for i, doc := range docs {
		dr := DocumentResult{Document: doc}
		if r := results[i]; r != nil {
			dr.Candidates = r.Candidates
			dr.Entities = r.Entities
			if r.Error != nil {
				dr.Error = r.Error.Error()
			}
		} else {
			dr.Error = "not processed"
		}
		out.Documents[i] = dr
	}
	return out, err
}

// ScanFiles loads every path and scans the documents
func (s *Scanner) ScanFiles(ctx context.Context, paths []string, progress parallel.ProgressCallback) (*ScanResult, error) {
	docs, err := source.NewLoader(s.observer).LoadAll(ctx, paths, s.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}
	return s.ScanDocuments(ctx, docs, progress)
}

// SplitList turns a comma-separated flag value into trimmed, non-empty items
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
