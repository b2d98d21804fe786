// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns free text into typed, positioned candidates. It
// runs the hint scanners, recurses into quoted blocks, and resolves
// overlaps between hits of the same kind.
package extract

import (
	"errors"
	"fmt"

	"hintscan/internal/detector"
	"hintscan/internal/hints"
	"hintscan/internal/observability"
)

const (
	// DefaultMaxDepth is the quoted-block recursion depth used by Extract
	DefaultMaxDepth = 1
	// MaxRecursionDepth bounds any requested depth
	MaxRecursionDepth = 2
)

// ErrInvalidOptions is returned by NewEngine for unusable settings
var ErrInvalidOptions = errors.New("invalid extraction options")

// Options configures an Engine. The zero value uses the default
// vocabulary with every category enabled.
type Options struct {
	Vocabulary *hints.Vocabulary

	// Categories limits output; nil enables everything
	Categories map[detector.Category]bool

	// ContextChars is the context window on each side, in runes. Nil
	// means detector.DefaultContextChars; zero keeps only the match.
	ContextChars *int

	// MaxDepth is the recursion depth used by Extract. Nil means
	// DefaultMaxDepth; zero disables quoted-block recursion.
	MaxDepth *int

	// Scanners replaces the scanners built from Vocabulary
	Scanners []detector.Scanner

	Observer *observability.StandardObserver
}

// Engine is an immutable, compiled extractor. It is safe for concurrent use.
type Engine struct {
	scanners *hints.Set
	quotes   bool
	context  *detector.ContextExtractor
	maxDepth int
	observer *observability.StandardObserver
}

// NewEngine compiles the scanners described by opts
func NewEngine(opts Options) (*Engine, error) {
	chars := intOr(opts.ContextChars, detector.DefaultContextChars)
	if chars < 0 || chars > detector.MaxContextChars {
		return nil, fmt.Errorf("context chars %d outside 0..%d: %w", chars, detector.MaxContextChars, ErrInvalidOptions)
	}
	depth := intOr(opts.MaxDepth, DefaultMaxDepth)
	if depth < 0 {
		return nil, fmt.Errorf("max depth %d is negative: %w", depth, ErrInvalidOptions)
	}

	set := hints.NewSet(opts.Scanners...)
	if opts.Scanners == nil {
		var err error
		set, err = hints.BuildScannerSet(opts.Categories, opts.Vocabulary)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		scanners: set,
		quotes:   opts.Categories == nil || opts.Categories[detector.QuotedNameCandidate],
		context:  detector.NewContextExtractor().WithContextChars(chars),
		maxDepth: clampDepth(depth),
		observer: opts.Observer,
	}, nil
}

// GetComponentName implements observability.Observable
func (e *Engine) GetComponentName() string {
	return "extract"
}

// MaxDepth reports the recursion depth Extract uses
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Categories lists the categories the engine can emit
func (e *Engine) Categories() []detector.Category {
	cats := e.scanners.Categories()
	if e.quotes {
		cats = append(cats, detector.QuotedNameCandidate)
	}
	return cats
}

// Extract returns every candidate in text, ordered by span
func (e *Engine) Extract(text string) []detector.Candidate {
	return e.ExtractDepth(text, e.maxDepth)
}

// ExtractDepth is Extract with an explicit recursion depth, clamped to
// 0..MaxRecursionDepth
func (e *Engine) ExtractDepth(text string, maxDepth int) []detector.Candidate {
	finish := e.observer.StartTiming(e.GetComponentName(), "extract", "")

	cands := e.extract(text, 0, clampDepth(maxDepth))
	e.context.Fill(text, cands)
	detector.SortCandidates(cands)

	finish(true, map[string]interface{}{
		"content_length": len(text),
		"match_count":    len(cands),
		"max_depth":      maxDepth,
	})
	return cands
}

// ExtractSection extracts only inside the [header] section of text. Spans
// and context still refer to the full text. A missing section yields nil.
func (e *Engine) ExtractSection(text, header string) []detector.Candidate {
	span, ok := SectionRange(text, header)
	if !ok {
		return nil
	}

	cands := e.extract(text[span.Start:span.End], 0, e.maxDepth)
	for i := range cands {
		cands[i].Span = cands[i].Span.Shift(span.Start)
	}
	e.context.Fill(text, cands)
	detector.SortCandidates(cands)
	return cands
}

// extract runs the full pipeline without context or ordering
func (e *Engine) extract(text string, depth, maxDepth int) []detector.Candidate {
	if text == "" {
		return []detector.Candidate{}
	}

	cands := e.scanners.Scan(text)
	cands = append(cands, e.quoted(text, depth, maxDepth)...)

	cands = hints.DropShadowedGateways(cands)
	cands = PruneOverlaps(cands, []detector.Category{detector.ZoneHint}, nil)
	cands = PruneOverlaps(cands, []detector.Category{detector.DeviceTypeHint}, []string{hints.LineCanonical})
	return Dedupe(cands)
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > MaxRecursionDepth {
		return MaxRecursionDepth
	}
	return depth
}
